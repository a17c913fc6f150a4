//go:build linux

package kernel

import (
	"context"
	"fmt"

	"github.com/google/nftables"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"

	"grimm.is/nftjson/internal/schema"
)

// inet ingress hook, not exported by x/sys.
const nfINetIngress = 5

// arp family hooks (linux/netfilter_arp.h), not exported by x/sys.
const (
	nfARPIn  = 0
	nfARPOut = 1
)

// Snapshot lists tables, chains, sets and maps. Objects are returned as
// bare list objects, tables first, in kernel order.
func (r *Reader) Snapshot(ctx context.Context) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	var opts []nftables.ConnOption
	if r.Namespace != "" {
		ns, err := netns.GetFromName(r.Namespace)
		if err != nil {
			return schema.Document{}, fmt.Errorf("failed to open netns %s: %w", r.Namespace, err)
		}
		defer ns.Close()
		opts = append(opts, nftables.WithNetNSFd(int(ns)))
	}

	conn, err := nftables.New(opts...)
	if err != nil {
		return schema.Document{}, fmt.Errorf("failed to open nftables connection: %w", err)
	}

	tables, err := conn.ListTables()
	if err != nil {
		return schema.Document{}, fmt.Errorf("failed to list tables: %w", err)
	}
	chains, err := conn.ListChains()
	if err != nil {
		return schema.Document{}, fmt.Errorf("failed to list chains: %w", err)
	}

	var objs []schema.Object
	for _, t := range tables {
		fam, ok := family(t.Family)
		if !ok {
			continue
		}
		objs = append(objs, schema.Table{Family: fam, Name: t.Name})
	}
	for _, c := range chains {
		if c.Table == nil {
			continue
		}
		if ch, ok := chain(c); ok {
			objs = append(objs, ch)
		}
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return schema.Document{}, err
		}
		fam, ok := family(t.Family)
		if !ok {
			continue
		}
		sets, err := conn.GetSets(t)
		if err != nil {
			return schema.Document{}, fmt.Errorf("failed to list sets of %s %s: %w", fam, t.Name, err)
		}
		for _, s := range sets {
			if s.Anonymous {
				continue
			}
			objs = append(objs, set(fam, t.Name, s))
		}
	}
	return schema.Document{Objects: objs}, nil
}

// ListRuleset is Snapshot. It lets a Reader stand in for the nft client
// as a metrics source.
func (r *Reader) ListRuleset(ctx context.Context) (schema.Document, error) {
	return r.Snapshot(ctx)
}

func family(f nftables.TableFamily) (schema.Family, bool) {
	switch f {
	case nftables.TableFamilyIPv4:
		return schema.FamilyIP, true
	case nftables.TableFamilyIPv6:
		return schema.FamilyIP6, true
	case nftables.TableFamilyINet:
		return schema.FamilyINet, true
	case nftables.TableFamilyARP:
		return schema.FamilyARP, true
	case nftables.TableFamilyBridge:
		return schema.FamilyBridge, true
	case nftables.TableFamilyNetdev:
		return schema.FamilyNetdev, true
	}
	return "", false
}

func chain(c *nftables.Chain) (schema.Chain, bool) {
	fam, ok := family(c.Table.Family)
	if !ok {
		return schema.Chain{}, false
	}
	out := schema.Chain{Family: fam, Table: c.Table.Name, Name: c.Name}
	if c.Hooknum == nil {
		return out, true
	}
	if h, ok := hook(fam, uint32(*c.Hooknum)); ok {
		out.Hook = &h
	}
	if c.Type != "" {
		t := schema.ChainType(c.Type)
		out.Type = &t
	}
	if c.Priority != nil {
		p := int32(*c.Priority)
		out.Prio = &p
	}
	if c.Policy != nil {
		p := schema.PolicyAccept
		if *c.Policy == nftables.ChainPolicyDrop {
			p = schema.PolicyDrop
		}
		out.Policy = &p
	}
	return out, true
}

func hook(fam schema.Family, num uint32) (schema.Hook, bool) {
	switch fam {
	case schema.FamilyNetdev:
		switch num {
		case unix.NF_NETDEV_INGRESS:
			return schema.HookIngress, true
		case unix.NF_NETDEV_EGRESS:
			return schema.HookEgress, true
		}
	case schema.FamilyARP:
		switch num {
		case nfARPIn:
			return schema.HookInput, true
		case nfARPOut:
			return schema.HookOutput, true
		}
	default:
		switch num {
		case unix.NF_INET_PRE_ROUTING:
			return schema.HookPrerouting, true
		case unix.NF_INET_LOCAL_IN:
			return schema.HookInput, true
		case unix.NF_INET_FORWARD:
			return schema.HookForward, true
		case unix.NF_INET_LOCAL_OUT:
			return schema.HookOutput, true
		case unix.NF_INET_POST_ROUTING:
			return schema.HookPostrouting, true
		case nfINetIngress:
			return schema.HookIngress, true
		}
	}
	return "", false
}

func set(fam schema.Family, table string, s *nftables.Set) schema.ListObject {
	var flags []schema.SetFlag
	if s.Constant {
		flags = append(flags, schema.SetFlagConstant)
	}
	if s.Interval {
		flags = append(flags, schema.SetFlagInterval)
	}
	if s.HasTimeout {
		flags = append(flags, schema.SetFlagTimeout)
	}

	var keyType schema.SetTypeValue
	if s.KeyType.Name != "" {
		keyType = schema.One(schema.SetType(s.KeyType.Name))
	}

	if s.IsMap {
		m := schema.Map{Family: fam, Table: table, Name: s.Name, Type: keyType, Flags: flags}
		if s.DataType.Name != "" {
			m.Map = schema.One(schema.SetType(s.DataType.Name))
		}
		return m
	}
	return schema.Set{Family: fam, Table: table, Name: s.Name, Type: keyType, Flags: flags}
}
