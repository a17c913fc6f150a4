package nft

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"grimm.is/nftjson/internal/batch"
	"grimm.is/nftjson/internal/logging"
	"grimm.is/nftjson/internal/schema"
)

// Config controls how nft is invoked.
type Config struct {
	// Program is the executable to run. It is looked up in PATH when it
	// contains no slash.
	Program string

	// Args are placed before nft's own arguments. With Program "ip" and
	// Args ["netns", "exec", "ns0", "nft"] every call runs inside ns0.
	Args []string

	// Dir is the working directory of the process.
	Dir string

	// Decode controls how list output is parsed.
	Decode schema.DecodeOptions
}

// DefaultConfig returns the configuration for a plain "nft" in PATH.
func DefaultConfig() Config {
	return Config{Program: "nft"}
}

// Client applies and lists rulesets through the nft binary.
//
// A Client holds no per-call state and is safe for concurrent use once
// configured. nft serializes transactions in the kernel, so concurrent
// Apply calls never interleave.
type Client struct {
	cfg      Config
	runner   CommandRunner
	logger   *logging.Logger
	observer Observer
}

// New creates a client. An empty Program falls back to "nft".
func New(cfg Config) *Client {
	if cfg.Program == "" {
		cfg.Program = "nft"
	}
	return &Client{
		cfg:      cfg,
		runner:   DefaultCommandRunner,
		logger:   logging.WithComponent("nft"),
		observer: nopObserver{},
	}
}

// SetRunner replaces the process runner.
func (c *Client) SetRunner(r CommandRunner) {
	c.runner = r
}

// SetLogger replaces the logger.
func (c *Client) SetLogger(l *logging.Logger) {
	c.logger = l.WithComponent("nft")
}

// SetObserver installs an observer. nil removes it.
func (c *Client) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Apply encodes doc and applies it as one transaction.
func (c *Client) Apply(ctx context.Context, doc schema.Document) error {
	payload, err := schema.Encode(doc)
	if err != nil {
		return err
	}
	return c.ApplyRaw(ctx, payload)
}

// ApplyRaw applies an already encoded document.
func (c *Client) ApplyRaw(ctx context.Context, payload []byte) error {
	_, err := c.run(ctx, OpApply, "applying ruleset", []string{"-j", "-f", "-"}, payload)
	return err
}

// Check asks nft to validate doc without committing it.
func (c *Client) Check(ctx context.Context, doc schema.Document) error {
	payload, err := schema.Encode(doc)
	if err != nil {
		return err
	}
	return c.CheckRaw(ctx, payload)
}

// CheckRaw validates an already encoded document.
func (c *Client) CheckRaw(ctx context.Context, payload []byte) error {
	_, err := c.run(ctx, OpCheck, "checking ruleset", []string{"-c", "-j", "-f", "-"}, payload)
	return err
}

// ReplaceRuleset flushes the whole ruleset and adds every object of
// desired in a single transaction. Commands in desired are passed through
// as they are. Bare metainfo objects are dropped.
func (c *Client) ReplaceRuleset(ctx context.Context, desired schema.Document) error {
	return c.Apply(ctx, ReplacementBatch(desired).Document())
}

// ReplacementBatch builds the batch ReplaceRuleset applies.
func ReplacementBatch(desired schema.Document) *batch.Batch {
	b := batch.New().Flush(schema.Ruleset{})
	for _, obj := range desired.Objects {
		switch o := obj.(type) {
		case schema.Command:
			b.AddCommand(o)
		case schema.Metainfo:
		case schema.ListObject:
			b.Add(o)
		}
	}
	return b
}

// ListRuleset returns the complete current ruleset.
func (c *Client) ListRuleset(ctx context.Context) (schema.Document, error) {
	return c.List(ctx)
}

// List runs "nft -j <args>" and decodes the output. Without args it lists
// the whole ruleset.
func (c *Client) List(ctx context.Context, args ...string) (schema.Document, error) {
	start := time.Now()
	out, err := c.listRaw(ctx, args)
	if err != nil {
		c.observer.ObserveResult(OpList, err, len(out), time.Since(start))
		return schema.Document{}, err
	}
	doc, err := schema.DecodeWithOptions(out, c.cfg.Decode)
	if err != nil {
		err = fmt.Errorf("decode %s output: %w", c.cfg.Program, err)
	}
	c.observer.ObserveResult(OpList, err, len(out), time.Since(start))
	return doc, err
}

// ListRaw is List without decoding.
func (c *Client) ListRaw(ctx context.Context, args ...string) ([]byte, error) {
	start := time.Now()
	out, err := c.listRaw(ctx, args)
	c.observer.ObserveResult(OpList, err, len(out), time.Since(start))
	return out, err
}

func (c *Client) listRaw(ctx context.Context, args []string) ([]byte, error) {
	if len(args) == 0 {
		args = []string{"list", "ruleset"}
	}
	out, err := c.run(ctx, OpList, "getting the current ruleset", append([]string{"-j"}, args...), nil)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(out.Stdout) {
		return nil, &OutputEncodingError{Program: c.cfg.Program, Stream: "stdout"}
	}
	return out.Stdout, nil
}

// run performs one invocation and drives the state machine. Apply and
// check results are reported to the observer here; list results are
// reported by the caller once decoding is done.
func (c *Client) run(ctx context.Context, op, hint string, args []string, stdin []byte) (Output, error) {
	log := c.logger.WithOperation(op, uuid.NewString())
	start := time.Now()

	full := slices.Concat(c.cfg.Args, args)
	transition := func(s State) {
		log.Debug("state", "state", s.String())
		c.observer.ObserveState(op, s)
	}
	transition(StateIdle)

	out, err := c.runner.Run(ctx, Process{
		Program: c.cfg.Program,
		Args:    full,
		Dir:     c.cfg.Dir,
		Stdin:   stdin,
		OnState: transition,
	})
	if err == nil && out.ExitCode != 0 {
		err = &ProcessFailedError{
			Program:  c.cfg.Program,
			Args:     full,
			Hint:     hint,
			ExitCode: out.ExitCode,
			Stdout:   string(out.Stdout),
			Stderr:   string(out.Stderr),
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		transition(StateFailed)
		log.Warn("nft failed", "error", err, "elapsed", elapsed)
	} else {
		transition(StateSucceeded)
		log.Debug("nft finished", "bytes_in", len(stdin), "bytes_out", len(out.Stdout), "elapsed", elapsed)
	}

	if op != OpList {
		c.observer.ObserveResult(op, err, len(stdin), elapsed)
	}
	return out, err
}
