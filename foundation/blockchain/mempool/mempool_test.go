package mempool_test

import (
	"sync"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				database.NewTx("alice", "bob", 10),
				database.NewTx("bob", "carol", 50),
				database.NewTx("alice", "bob", 10),
				database.NewTx("carol", "alice", 0),
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the new count: got %d, exp %d", failed, testID, n, i+1)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add every transaction.", success, testID)

					trans := mp.Copy()
					for i, tx := range trans {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould keep arrival order and duplicates.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep arrival order and duplicates.", success, testID)

					trans[0].Amount = 999
					if mp.Copy()[0].Amount == 999 {
						t.Fatalf("\t%s\tTest %d:\tShould hand out copies.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould hand out copies.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be empty after truncate: got %d", failed, testID, mp.Count())
					}
					t.Logf("\t%s\tTest %d:\tShould be empty after truncate.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestConcurrentAdd(t *testing.T) {
	t.Log("Given the need to add transactions from many G's.")
	{
		mp := mempool.New()

		const g = 10
		var wg sync.WaitGroup
		wg.Add(g)
		for range g {
			go func() {
				defer wg.Done()
				for i := range 100 {
					mp.Add(database.NewTx("a", "b", uint64(i)))
				}
			}()
		}
		wg.Wait()

		if mp.Count() != g*100 {
			t.Fatalf("\t%s\tShould hold every transaction: got %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould hold every transaction.", success)
	}
}
