package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/events"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func Test_Verify(t *testing.T) {
	type table struct {
		name  string
		args  []string
		valid bool
	}

	tt := []table{
		{name: "valid", args: []string{"verify", "100", "35293"}, valid: true},
		{name: "invalid", args: []string{"verify", "100", "35292"}},
		{name: "chained", args: []string{"verify", "35293", "35089"}, valid: true},
		{name: "bad-number", args: []string{"verify", "100", "abc"}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			out, err := execute(t, tst.args...)
			if tst.valid {
				if err != nil || !strings.Contains(out, "valid proof") {
					t.Fatalf("Test %s:\tShould accept the proof: %v %q", tst.name, err, out)
				}
				return
			}
			if err == nil {
				t.Fatalf("Test %s:\tShould reject the proof.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Prove(t *testing.T) {
	out, err := execute(t, "prove", "100", "--workers", "2")
	if err != nil {
		t.Fatalf("Should find a proof: %s", err)
	}
	if out != "proof: 35293\n" {
		t.Fatalf("Should find the smallest proof: got %q", out)
	}
}

func Test_NodeCommands(t *testing.T) {
	l, err := ledger.New(ledger.Config{Workers: 2})
	if err != nil {
		t.Fatalf("Should construct a ledger: %s", err)
	}
	defer l.Shutdown()

	evts := events.New()
	defer evts.Shutdown()

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		Ledger:   l,
		NodeID:   "node-1",
		Evts:     evts,
	}))
	defer srv.Close()

	out, err := execute(t, "send", "--url", srv.URL, "--sender", "alice", "--recipient", "bob", "--amount", "5")
	if err != nil {
		t.Fatalf("Should send a transaction: %s", err)
	}
	if !strings.Contains(out, "Transaction will be added to Block 2") {
		t.Fatalf("Should report the block: got %q", out)
	}

	out, err = execute(t, "mine", "--url", srv.URL)
	if err != nil {
		t.Fatalf("Should mine a block: %s", err)
	}
	if !strings.Contains(out, "blk[2]: proof[35293]") || !strings.Contains(out, "0->node-1:1") {
		t.Fatalf("Should print the forged block: got %q", out)
	}

	out, err = execute(t, "chain", "--url", srv.URL, "--validate")
	if err != nil {
		t.Fatalf("Should read and validate the chain: %s", err)
	}
	if !strings.Contains(out, "length: 2") || !strings.Contains(out, "chain is valid") {
		t.Fatalf("Should print the chain: got %q", out)
	}

	if _, err := execute(t, "mine", "--url", srv.URL, "--background"); err == nil {
		t.Fatal("Should fail when the node runs no background worker.")
	}
}
