// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Ledger *ledger.Ledger
	Worker *worker.Worker
	NodeID string
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Mine solves the puzzle for the latest block and forges a new block holding
// the pending transactions plus the reward for this node.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, duration, err := h.Ledger.MineNewBlock(ctx, h.NodeID)
	if err != nil {
		switch {
		case errors.Is(err, pow.ErrNotFound):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mining block: %w", err)
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "index", block.Index, "proof", block.Proof, "duration", duration)

	resp := minedBlock{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx := database.NewTx(*ntx.Sender, *ntx.Recipient, *ntx.Amount)
	index := h.Ledger.NewTransaction(tx)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx, "index", index)

	resp := message{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.Mempool(), http.StatusOK)
}

// Chain returns the full chain and its length.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.Ledger.Chain()
	if err != nil {
		return fmt.Errorf("reading chain: %w", err)
	}

	resp := chain{
		Chain:  blocks,
		Length: len(blocks),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ValidateChain walks the chain and checks every link and proof.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.Ledger.ValidateChain(); err != nil {
		return err
	}

	resp := validation{
		Valid:  true,
		Length: h.Ledger.Length(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining wakes the background worker to mine the pending transactions.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Worker == nil {
		return errs.NewTrusted(errors.New("background mining is disabled"), http.StatusServiceUnavailable)
	}

	h.Worker.SignalStartMining()

	resp := message{
		Message: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	ch, err := h.Evts.Acquire(v.TraceID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}
	defer h.Evts.Release(v.TraceID)

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return nil
	}
	defer c.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
