package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/powledger/business/web/errs"
)

func Test_Trusted(t *testing.T) {
	base := errors.New("proof doesn't solve the puzzle")

	err := fmt.Errorf("mining: %w", errs.NewTrusted(base, http.StatusConflict))

	if !errs.IsTrusted(err) {
		t.Fatal("Should find the trusted error in the chain.")
	}

	te := errs.GetTrusted(err)
	if te.Status != http.StatusConflict || te.Error() != base.Error() {
		t.Fatalf("Should keep the status and message: got %d %q", te.Status, te.Error())
	}

	if !errors.Is(err, base) {
		t.Fatal("Should unwrap to the original error.")
	}

	if errs.IsTrusted(base) || errs.GetTrusted(base) != nil {
		t.Fatal("Should not treat a plain error as trusted.")
	}

	resp, status := errs.Untrusted()
	if status != http.StatusInternalServerError || resp.Error != "Internal Server Error" {
		t.Fatalf("Should hide untrusted messages: got %d %q", status, resp.Error)
	}
}
