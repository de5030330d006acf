package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func Test_Mining(t *testing.T) {
	t.Log("Given the need to mine pending transactions in the background.")
	{
		l, err := ledger.New(ledger.Config{Workers: 2})
		if err != nil {
			t.Fatalf("\t%s\tShould construct a ledger: %s", failed, err)
		}

		w := worker.Run(worker.Config{
			Ledger:      l,
			Beneficiary: "miner-A",
			EvHandler:   func(v string, args ...any) { t.Logf(v, args...) },
		})

		t.Logf("\tTest 0:\tWhen there are no pending transactions.")
		{
			w.SignalStartMining()
			time.Sleep(50 * time.Millisecond)

			if l.Length() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not mine an empty pool: length %d", failed, l.Length())
			}
			t.Logf("\t%s\tTest 0:\tShould not mine an empty pool.", success)
		}

		t.Logf("\tTest 1:\tWhen a transaction is pending.")
		{
			l.NewTransaction(database.NewTx("alice", "bob", 5))
			w.SignalStartMining()

			if !waitFor(func() bool { return l.Length() == 2 }) {
				t.Fatalf("\t%s\tTest 1:\tShould mine a block: length %d", failed, l.Length())
			}
			t.Logf("\t%s\tTest 1:\tShould mine a block.", success)

			block := l.LastBlock()
			if len(block.Transactions) != 2 || block.Transactions[1].Recipient != "miner-A" {
				t.Fatalf("\t%s\tTest 1:\tShould hold the pending tx and the reward: got %v", failed, block.Transactions)
			}
			t.Logf("\t%s\tTest 1:\tShould hold the pending tx and the reward.", success)
		}

		w.Shutdown()
		t.Logf("\t%s\tShould shut down cleanly.", success)

		if err := l.ValidateChain(); err != nil {
			t.Fatalf("\t%s\tShould have a valid chain: %s", failed, err)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_ShutdownWhileMining(t *testing.T) {
	t.Log("Given the need to shut down while a search is running.")
	{
		l, err := ledger.New(ledger.Config{Workers: 1})
		if err != nil {
			t.Fatalf("\t%s\tShould construct a ledger: %s", failed, err)
		}

		w := worker.Run(worker.Config{Ledger: l, Beneficiary: "miner-A"})

		l.NewTransaction(database.NewTx("alice", "bob", 5))
		w.SignalStartMining()

		done := make(chan struct{})
		go func() {
			w.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould return from shutdown.", success)
		case <-time.After(30 * time.Second):
			t.Fatalf("\t%s\tShould return from shutdown.", failed)
		}

		if l.Length() > 2 {
			t.Fatalf("\t%s\tShould mine at most one block: length %d", failed, l.Length())
		}
		t.Logf("\t%s\tShould mine at most one block.", success)
	}
}
