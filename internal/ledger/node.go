package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dropsShift converts between XRP and drops (1 XRP = 10^6 drops).
const dropsShift = 6

// NodeClient implements Client over the rippled WebSocket API. One request
// is in flight at a time; the client is not safe for concurrent use, which
// matches the single-submitter model of the pipeline.
type NodeClient struct {
	url  string
	conn *websocket.Conn
	seq  int
}

// NewNodeClient creates a client for the given wss:// endpoint. No network
// activity happens until Connect.
func NewNodeClient(url string) *NodeClient {
	return &NodeClient{url: url}
}

func (c *NodeClient) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnection, c.url, err)
	}
	c.conn = conn
	return nil
}

func (c *NodeClient) Disconnect() {
	if c.conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		zap.L().Debug("websocket close handshake failed", zap.Error(err))
	}
	if err := c.conn.Close(); err != nil {
		zap.L().Debug("websocket close failed", zap.Error(err))
	}
	c.conn = nil
}

// commandError is a command-level rejection from the node, as opposed to a
// transport failure.
type commandError struct {
	Code    string
	Message string
}

func (e *commandError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type envelope struct {
	ID           int             `json:"id"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// call sends one command and reads its reply. Request payloads are never
// logged: the sign command carries the account secret.
func (c *NodeClient) call(ctx context.Context, command string, params map[string]any) (json.RawMessage, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("%w: not connected", ErrConnection)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}

	c.seq++
	req := map[string]any{"id": c.seq, "command": command}
	for k, v := range params {
		req[k] = v
	}

	if err := c.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("write %s: %w", command, err)
	}
	var resp envelope
	if err := c.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("read %s: %w", command, err)
	}
	if resp.Status != "success" {
		return nil, &commandError{Code: resp.Error, Message: resp.ErrorMessage}
	}
	return resp.Result, nil
}

func (c *NodeClient) CurrentFee(ctx context.Context) (decimal.Decimal, error) {
	raw, err := c.call(ctx, "fee", nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: fee query: %v", ErrConnection, err)
	}
	var out struct {
		Drops struct {
			OpenLedgerFee string `json:"open_ledger_fee"`
		} `json:"drops"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode fee: %v", ErrConnection, err)
	}
	drops, err := decimal.NewFromString(out.Drops.OpenLedgerFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: fee value %q: %v", ErrConnection, out.Drops.OpenLedgerFee, err)
	}
	return drops.Shift(-dropsShift), nil
}

// PrepareAndSign builds the transaction form of the payment and delegates
// signing to the node's sign command, which also autofills the Fee and
// Sequence fields.
func (c *NodeClient) PrepareAndSign(ctx context.Context, payment Payment, secret string, instr Instructions) (*SignedTx, error) {
	tx, err := c.paymentTx(ctx, payment, instr)
	if err != nil {
		return nil, err
	}

	raw, err := c.call(ctx, "sign", map[string]any{
		"tx_json":      tx,
		"secret":       secret,
		"offline":      false,
		"fee_mult_max": 1000,
	})
	if err != nil {
		var cmdErr *commandError
		if errors.As(err, &cmdErr) {
			if cmdErr.Code == "badSecret" || cmdErr.Code == "badSeed" {
				return nil, fmt.Errorf("%w: %v", ErrSigning, cmdErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrValidation, cmdErr)
		}
		return nil, fmt.Errorf("%w: sign: %v", ErrConnection, err)
	}

	var out struct {
		TxBlob string `json:"tx_blob"`
		TxJSON struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode sign result: %v", ErrConnection, err)
	}
	if out.TxBlob == "" {
		return nil, fmt.Errorf("%w: sign result missing tx_blob", ErrValidation)
	}
	return &SignedTx{Blob: out.TxBlob, Hash: out.TxJSON.Hash}, nil
}

func (c *NodeClient) Submit(ctx context.Context, blob string) (*SubmitResult, error) {
	raw, err := c.call(ctx, "submit", map[string]any{"tx_blob": blob})
	if err != nil {
		return nil, fmt.Errorf("%w: submit: %v", ErrNetwork, err)
	}
	var out struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode submit result: %v", ErrNetwork, err)
	}
	return &SubmitResult{
		EngineResult:        out.EngineResult,
		EngineResultMessage: out.EngineResultMessage,
	}, nil
}

// paymentTx maps the high-level payment description to rippled tx_json.
func (c *NodeClient) paymentTx(ctx context.Context, payment Payment, instr Instructions) (map[string]any, error) {
	if payment.Source.Address == "" || payment.Destination.Address == "" {
		return nil, fmt.Errorf("%w: missing source or destination address", ErrValidation)
	}
	if payment.Source.MaxAmount.Value != payment.Destination.Amount.Value {
		return nil, fmt.Errorf("%w: source and destination amounts differ", ErrValidation)
	}
	drops, err := dropsFromXRP(payment.Destination.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", ErrValidation, payment.Destination.Amount.Value, err)
	}

	offset := instr.MaxLedgerOffset
	if offset == 0 {
		offset = DefaultMaxLedgerOffset
	}
	index, err := c.currentLedgerIndex(ctx)
	if err != nil {
		return nil, err
	}

	tx := map[string]any{
		"TransactionType":    "Payment",
		"Account":            payment.Source.Address,
		"Destination":        payment.Destination.Address,
		"Amount":             drops,
		"LastLedgerSequence": index + offset,
	}
	if payment.Source.Tag != nil {
		tx["SourceTag"] = *payment.Source.Tag
	}
	if payment.Destination.Tag != nil {
		tx["DestinationTag"] = *payment.Destination.Tag
	}
	if len(payment.Memos) > 0 {
		memos := make([]map[string]any, 0, len(payment.Memos))
		for _, m := range payment.Memos {
			memos = append(memos, map[string]any{
				"Memo": map[string]any{
					"MemoData":   hex.EncodeToString([]byte(m.Data)),
					"MemoFormat": hex.EncodeToString([]byte(m.Format)),
				},
			})
		}
		tx["Memos"] = memos
	}
	return tx, nil
}

func (c *NodeClient) currentLedgerIndex(ctx context.Context) (uint32, error) {
	raw, err := c.call(ctx, "ledger_current", nil)
	if err != nil {
		return 0, fmt.Errorf("%w: ledger_current: %v", ErrConnection, err)
	}
	var out struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("%w: decode ledger_current: %v", ErrConnection, err)
	}
	return out.LedgerCurrentIndex, nil
}

// dropsFromXRP converts a decimal XRP string to an integer drops string.
func dropsFromXRP(value string) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", err
	}
	if d.IsNegative() {
		return "", errors.New("negative value")
	}
	drops := d.Shift(dropsShift)
	if !drops.Equal(drops.Truncate(0)) {
		return "", errors.New("more than six fractional digits")
	}
	return drops.String(), nil
}
