package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	tt := []table{
		{
			name:    "full",
			content: `{"proof":7,"previous_hash":"abc","mining_reward":25}`,
			exp:     genesis.Genesis{Proof: 7, PreviousHash: "abc", MiningReward: 25},
		},
		{
			name:    "defaults",
			content: `{"mining_reward":3}`,
			exp:     genesis.Genesis{Proof: genesis.DefaultProof, PreviousHash: genesis.DefaultPreviousHash, MiningReward: 3},
		},
		{
			name:    "empty-hash",
			content: `{"previous_hash":""}`,
			fail:    true,
		},
		{
			name:    "bad-json",
			content: `{`,
			fail:    true,
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
				t.Fatalf("Test %s:\tShould be able to write the file: %s", tst.name, err)
			}

			gen, err := genesis.Load(path)
			if tst.fail {
				if err == nil {
					t.Fatalf("Test %s:\tShould fail to load.", tst.name)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould load the file: %s", tst.name, err)
			}

			if gen != tst.exp {
				t.Logf("Test %s:\tgot: %+v", tst.name, gen)
				t.Logf("Test %s:\texp: %+v", tst.name, tst.exp)
				t.Fatalf("Test %s:\tShould get back the right genesis.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
