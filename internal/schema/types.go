package schema

// Family is an nftables address family.
type Family string

const (
	FamilyIP     Family = "ip"     // IPv4
	FamilyIP6    Family = "ip6"    // IPv6
	FamilyINet   Family = "inet"   // IPv4 and IPv6
	FamilyARP    Family = "arp"    // ARP, IPv4 only
	FamilyBridge Family = "bridge" // packets traversing a bridge device
	FamilyNetdev Family = "netdev" // ingress/egress of a single device
)

var familyValues = []Family{FamilyIP, FamilyIP6, FamilyINet, FamilyARP, FamilyBridge, FamilyNetdev}

// ChainType is the type of a base chain.
type ChainType string

const (
	ChainTypeFilter ChainType = "filter"
	ChainTypeRoute  ChainType = "route"
	ChainTypeNAT    ChainType = "nat"
)

var chainTypeValues = []ChainType{ChainTypeFilter, ChainTypeRoute, ChainTypeNAT}

// ChainPolicy is the default verdict of a base chain.
type ChainPolicy string

const (
	PolicyAccept ChainPolicy = "accept"
	PolicyDrop   ChainPolicy = "drop"
)

var chainPolicyValues = []ChainPolicy{PolicyAccept, PolicyDrop}

// Hook is a netfilter hook point a base chain or flowtable attaches to.
type Hook string

const (
	HookIngress     Hook = "ingress"
	HookPrerouting  Hook = "prerouting"
	HookInput       Hook = "input"
	HookForward     Hook = "forward"
	HookOutput      Hook = "output"
	HookPostrouting Hook = "postrouting"
	HookEgress      Hook = "egress"
)

var hookValues = []Hook{HookIngress, HookPrerouting, HookInput, HookForward, HookOutput, HookPostrouting, HookEgress}

// SetType names the data type of set keys or map values. The list of types
// nft understands keeps growing, so it is not validated.
type SetType string

const (
	SetTypeIPv4Addr    SetType = "ipv4_addr"
	SetTypeIPv6Addr    SetType = "ipv6_addr"
	SetTypeEtherAddr   SetType = "ether_addr"
	SetTypeInetProto   SetType = "inet_proto"
	SetTypeInetService SetType = "inet_service"
	SetTypeMark        SetType = "mark"
	SetTypeIfname      SetType = "ifname"
)

// SetTypeValue is either a single type or a concatenation of types.
type SetTypeValue = OneOrMany[SetType]

// SetPolicy tunes the kernel set backend.
type SetPolicy string

const (
	SetPolicyPerformance SetPolicy = "performance"
	SetPolicyMemory      SetPolicy = "memory"
)

var setPolicyValues = []SetPolicy{SetPolicyPerformance, SetPolicyMemory}

// SetFlag is a flag of a named set or map.
type SetFlag string

const (
	SetFlagConstant SetFlag = "constant"
	SetFlagInterval SetFlag = "interval"
	SetFlagTimeout  SetFlag = "timeout"
	SetFlagDynamic  SetFlag = "dynamic"
)

var setFlagValues = []SetFlag{SetFlagConstant, SetFlagInterval, SetFlagTimeout, SetFlagDynamic}

// SetOp is the operation a set, map or flow statement performs.
type SetOp string

const (
	SetOpAdd    SetOp = "add"
	SetOpUpdate SetOp = "update"
	SetOpDelete SetOp = "delete"
)

var setOpValues = []SetOp{SetOpAdd, SetOpUpdate, SetOpDelete}

// LimitUnit is the unit of a named limit.
type LimitUnit string

const (
	LimitUnitPackets LimitUnit = "packets"
	LimitUnitBytes   LimitUnit = "bytes"
)

var limitUnitValues = []LimitUnit{LimitUnitPackets, LimitUnitBytes}

// TimeUnit is the denominator of a rate.
type TimeUnit string

const (
	TimeUnitSecond TimeUnit = "second"
	TimeUnitMinute TimeUnit = "minute"
	TimeUnitHour   TimeUnit = "hour"
	TimeUnitDay    TimeUnit = "day"
	TimeUnitWeek   TimeUnit = "week"
)

var timeUnitValues = []TimeUnit{TimeUnitSecond, TimeUnitMinute, TimeUnitHour, TimeUnitDay, TimeUnitWeek}

// CTProto is the layer 4 protocol of a conntrack helper, timeout or expectation.
type CTProto string

const (
	CTProtoTCP     CTProto = "tcp"
	CTProtoUDP     CTProto = "udp"
	CTProtoDCCP    CTProto = "dccp"
	CTProtoSCTP    CTProto = "sctp"
	CTProtoGRE     CTProto = "gre"
	CTProtoICMPv6  CTProto = "icmpv6"
	CTProtoICMP    CTProto = "icmp"
	CTProtoGeneric CTProto = "generic"
)

var ctProtoValues = []CTProto{CTProtoTCP, CTProtoUDP, CTProtoDCCP, CTProtoSCTP, CTProtoGRE, CTProtoICMPv6, CTProtoICMP, CTProtoGeneric}

// SynProxyFlag is a TCP option the synproxy passes through.
type SynProxyFlag string

const (
	SynProxyFlagTimestamp SynProxyFlag = "timestamp"
	SynProxyFlagSackPerm  SynProxyFlag = "sack-perm"
)

var synProxyFlagValues = []SynProxyFlag{SynProxyFlagTimestamp, SynProxyFlagSackPerm}

// Operator compares or combines the two sides of a match.
type Operator string

const (
	OpAnd    Operator = "&"
	OpOr     Operator = "|"
	OpXor    Operator = "^"
	OpLShift Operator = "<<"
	OpRShift Operator = ">>"
	OpEq     Operator = "=="
	OpNeq    Operator = "!="
	OpLt     Operator = "<"
	OpGt     Operator = ">"
	OpLeq    Operator = "<="
	OpGeq    Operator = ">="
	OpIn     Operator = "in"
)

var operatorValues = []Operator{OpAnd, OpOr, OpXor, OpLShift, OpRShift, OpEq, OpNeq, OpLt, OpGt, OpLeq, OpGeq, OpIn}

// BinaryOp is the operator of a binary operation expression.
type BinaryOp string

const (
	BinAnd    BinaryOp = "&"
	BinOr     BinaryOp = "|"
	BinXor    BinaryOp = "^"
	BinLShift BinaryOp = "<<"
	BinRShift BinaryOp = ">>"
)

var binaryOpValues = []BinaryOp{BinAnd, BinOr, BinXor, BinLShift, BinRShift}

// NATFlag modifies port and address selection of NAT statements.
type NATFlag string

const (
	NATFlagRandom      NATFlag = "random"
	NATFlagFullyRandom NATFlag = "fully-random"
	NATFlagPersistent  NATFlag = "persistent"
)

var natFlagValues = []NATFlag{NATFlagRandom, NATFlagFullyRandom, NATFlagPersistent}

// RejectType selects the kind of error reply a reject statement sends.
type RejectType string

const (
	RejectTCPReset RejectType = "tcp reset"
	RejectICMPX    RejectType = "icmpx"
	RejectICMP     RejectType = "icmp"
	RejectICMPv6   RejectType = "icmpv6"
)

var rejectTypeValues = []RejectType{RejectTCPReset, RejectICMPX, RejectICMP, RejectICMPv6}

// RejectCode is the ICMP code sent by a reject statement.
type RejectCode string

const (
	RejectAdminProhibited RejectCode = "admin-prohibited"
	RejectPortUnreach     RejectCode = "port-unreachable"
	RejectNoRoute         RejectCode = "no-route"
	RejectHostUnreach     RejectCode = "host-unreachable"
	RejectNetUnreach      RejectCode = "net-unreachable"
	RejectProtUnreach     RejectCode = "prot-unreachable"
	RejectNetProhibited   RejectCode = "net-prohibited"
	RejectHostProhibited  RejectCode = "host-prohibited"
	RejectAddrUnreach     RejectCode = "addr-unreachable"
)

var rejectCodeValues = []RejectCode{
	RejectAdminProhibited, RejectPortUnreach, RejectNoRoute, RejectHostUnreach, RejectNetUnreach,
	RejectProtUnreach, RejectNetProhibited, RejectHostProhibited, RejectAddrUnreach,
}

// LogLevel is the syslog level of a log statement.
type LogLevel string

const (
	LogEmerg  LogLevel = "emerg"
	LogAlert  LogLevel = "alert"
	LogCrit   LogLevel = "crit"
	LogErr    LogLevel = "err"
	LogWarn   LogLevel = "warn"
	LogNotice LogLevel = "notice"
	LogInfo   LogLevel = "info"
	LogDebug  LogLevel = "debug"
	LogAudit  LogLevel = "audit"
)

var logLevelValues = []LogLevel{LogEmerg, LogAlert, LogCrit, LogErr, LogWarn, LogNotice, LogInfo, LogDebug, LogAudit}

// LogFlag selects extra packet information to log.
type LogFlag string

const (
	LogFlagTCPSequence LogFlag = "tcp sequence"
	LogFlagTCPOptions  LogFlag = "tcp options"
	LogFlagIPOptions   LogFlag = "ip options"
	LogFlagSkuid       LogFlag = "skuid"
	LogFlagEther       LogFlag = "ether"
	LogFlagAll         LogFlag = "all"
)

var logFlagValues = []LogFlag{LogFlagTCPSequence, LogFlagTCPOptions, LogFlagIPOptions, LogFlagSkuid, LogFlagEther, LogFlagAll}

// QueueFlag modifies queue statement behaviour.
type QueueFlag string

const (
	QueueFlagBypass QueueFlag = "bypass"
	QueueFlagFanout QueueFlag = "fanout"
)

var queueFlagValues = []QueueFlag{QueueFlagBypass, QueueFlagFanout}

// PayloadBase is the protocol layer a raw payload offset is relative to.
type PayloadBase string

const (
	BaseLL PayloadBase = "ll" // link layer
	BaseNH PayloadBase = "nh" // network header
	BaseTH PayloadBase = "th" // transport header
	BaseIH PayloadBase = "ih" // inner header
)

var payloadBaseValues = []PayloadBase{BaseLL, BaseNH, BaseTH, BaseIH}

// MetaKey selects packet meta information.
type MetaKey string

const (
	MetaPkttype     MetaKey = "pkttype"
	MetaLength      MetaKey = "length"
	MetaProtocol    MetaKey = "protocol"
	MetaNfproto     MetaKey = "nfproto"
	MetaL4proto     MetaKey = "l4proto"
	MetaIif         MetaKey = "iif"
	MetaIifname     MetaKey = "iifname"
	MetaIiftype     MetaKey = "iiftype"
	MetaIifkind     MetaKey = "iifkind"
	MetaIifgroup    MetaKey = "iifgroup"
	MetaOif         MetaKey = "oif"
	MetaOifname     MetaKey = "oifname"
	MetaOiftype     MetaKey = "oiftype"
	MetaOifkind     MetaKey = "oifkind"
	MetaOifgroup    MetaKey = "oifgroup"
	MetaIbridgename MetaKey = "ibridgename"
	MetaObridgename MetaKey = "obridgename"
	MetaIbriport    MetaKey = "ibriport"
	MetaObriport    MetaKey = "obriport"
	MetaIbrvproto   MetaKey = "ibrvproto"
	MetaIbrpvid     MetaKey = "ibrpvid"
	MetaMark        MetaKey = "mark"
	MetaPriority    MetaKey = "priority"
	MetaRtclassid   MetaKey = "rtclassid"
	MetaSkuid       MetaKey = "skuid"
	MetaSkgid       MetaKey = "skgid"
	MetaCPU         MetaKey = "cpu"
	MetaCgroup      MetaKey = "cgroup"
	MetaSecpath     MetaKey = "secpath"
	MetaSecmark     MetaKey = "secmark"
	MetaRandom      MetaKey = "random"
	MetaNftrace     MetaKey = "nftrace"
	MetaTime        MetaKey = "time"
	MetaDay         MetaKey = "day"
	MetaHour        MetaKey = "hour"
	MetaSdif        MetaKey = "sdif"
	MetaSdifname    MetaKey = "sdifname"
	MetaBroute      MetaKey = "broute"
)

var metaKeyValues = []MetaKey{
	MetaPkttype, MetaLength, MetaProtocol, MetaNfproto, MetaL4proto,
	MetaIif, MetaIifname, MetaIiftype, MetaIifkind, MetaIifgroup,
	MetaOif, MetaOifname, MetaOiftype, MetaOifkind, MetaOifgroup,
	MetaIbridgename, MetaObridgename, MetaIbriport, MetaObriport, MetaIbrvproto, MetaIbrpvid,
	MetaMark, MetaPriority, MetaRtclassid, MetaSkuid, MetaSkgid,
	MetaCPU, MetaCgroup, MetaSecpath, MetaSecmark, MetaRandom, MetaNftrace,
	MetaTime, MetaDay, MetaHour, MetaSdif, MetaSdifname, MetaBroute,
}

// RTKey selects routing data.
type RTKey string

const (
	RTClassID RTKey = "classid"
	RTNextHop RTKey = "nexthop"
	RTMTU     RTKey = "mtu"
	RTIPsec   RTKey = "ipsec"
)

var rtKeyValues = []RTKey{RTClassID, RTNextHop, RTMTU, RTIPsec}

// CTDir is a conntrack flow direction.
type CTDir string

const (
	CTDirOriginal CTDir = "original"
	CTDirReply    CTDir = "reply"
)

var ctDirValues = []CTDir{CTDirOriginal, CTDirReply}

// NgMode is a number generator mode.
type NgMode string

const (
	NgInc    NgMode = "inc"
	NgRandom NgMode = "random"
)

var ngModeValues = []NgMode{NgInc, NgRandom}

// FibResult is the data a fib lookup returns.
type FibResult string

const (
	FibOif     FibResult = "oif"
	FibOifname FibResult = "oifname"
	FibType    FibResult = "type"
)

var fibResultValues = []FibResult{FibOif, FibOifname, FibType}

// FibFlag selects the packet data a fib lookup considers.
type FibFlag string

const (
	FibSaddr FibFlag = "saddr"
	FibDaddr FibFlag = "daddr"
	FibMark  FibFlag = "mark"
	FibIif   FibFlag = "iif"
	FibOifF  FibFlag = "oif"
)

var fibFlagValues = []FibFlag{FibSaddr, FibDaddr, FibMark, FibIif, FibOifF}

// OsfTTL is the TTL check mode of OS fingerprinting.
type OsfTTL string

const (
	OsfLoose OsfTTL = "loose"
	OsfSkip  OsfTTL = "skip"
)

var osfTTLValues = []OsfTTL{OsfLoose, OsfSkip}
