package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestNode runs a WebSocket server answering one command per message via
// handler. The handler returns the response envelope minus the echoed id.
func newTestNode(t *testing.T, handler func(req map[string]any) map[string]any) *NodeClient {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req map[string]any
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := handler(req)
			resp["id"] = req["id"]
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	client := NewNodeClient("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(client.Disconnect)
	return client
}

func success(result map[string]any) map[string]any {
	return map[string]any{"status": "success", "result": result}
}

func failure(code, message string) map[string]any {
	return map[string]any{"status": "error", "error": code, "error_message": message}
}

func TestNodeClientConnectRefused(t *testing.T) {
	client := NewNodeClient("ws://127.0.0.1:1/")
	err := client.Connect(context.Background())
	require.ErrorIs(t, err, ErrConnection)
}

func TestNodeClientCurrentFee(t *testing.T) {
	client := newTestNode(t, func(req map[string]any) map[string]any {
		assert.Equal(t, "fee", req["command"])
		return success(map[string]any{
			"drops": map[string]any{"open_ledger_fee": "12"},
		})
	})

	fee, err := client.CurrentFee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.000012", fee.String())
}

func TestNodeClientPrepareAndSign(t *testing.T) {
	var signReq map[string]any
	client := newTestNode(t, func(req map[string]any) map[string]any {
		switch req["command"] {
		case "ledger_current":
			return success(map[string]any{"ledger_current_index": 7000})
		case "sign":
			signReq = req
			return success(map[string]any{
				"tx_blob": "DEADBEEF",
				"tx_json": map[string]any{"hash": "HASH123"},
			})
		default:
			return failure("unknownCmd", "")
		}
	})

	tag := uint32(1000)
	payment := Payment{
		Source: Source{
			Address:   "rSender",
			MaxAmount: Amount{Value: "105.11", Currency: XRP},
		},
		Destination: Destination{
			Address: "rReceiver",
			Amount:  Amount{Value: "105.11", Currency: XRP},
			Tag:     &tag,
		},
		Memos: []Memo{{Data: "prize 42", Format: MemoFormatText}},
	}

	signed, err := client.PrepareAndSign(context.Background(), payment, "shhh", Instructions{MaxLedgerOffset: 5})
	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", signed.Blob)
	assert.Equal(t, "HASH123", signed.Hash)

	require.NotNil(t, signReq)
	assert.Equal(t, "shhh", signReq["secret"])
	tx := signReq["tx_json"].(map[string]any)
	assert.Equal(t, "Payment", tx["TransactionType"])
	assert.Equal(t, "rSender", tx["Account"])
	assert.Equal(t, "rReceiver", tx["Destination"])
	assert.Equal(t, "105110000", tx["Amount"])
	assert.Equal(t, float64(1000), tx["DestinationTag"])
	assert.Equal(t, float64(7005), tx["LastLedgerSequence"])
	assert.NotContains(t, tx, "SourceTag")

	memos := tx["Memos"].([]any)
	require.Len(t, memos, 1)
	memo := memos[0].(map[string]any)["Memo"].(map[string]any)
	// "prize 42" and "text/plain", hex encoded.
	assert.Equal(t, "7072697a65203432", memo["MemoData"])
	assert.Equal(t, "746578742f706c61696e", memo["MemoFormat"])
}

func TestNodeClientSignBadSecret(t *testing.T) {
	client := newTestNode(t, func(req map[string]any) map[string]any {
		if req["command"] == "ledger_current" {
			return success(map[string]any{"ledger_current_index": 7000})
		}
		return failure("badSecret", "secret does not match account")
	})

	payment := Payment{
		Source:      Source{Address: "rSender", MaxAmount: Amount{Value: "1", Currency: XRP}},
		Destination: Destination{Address: "rReceiver", Amount: Amount{Value: "1", Currency: XRP}},
	}
	_, err := client.PrepareAndSign(context.Background(), payment, "wrong", Instructions{})
	require.ErrorIs(t, err, ErrSigning)
}

func TestNodeClientSignMalformed(t *testing.T) {
	client := newTestNode(t, func(req map[string]any) map[string]any {
		if req["command"] == "ledger_current" {
			return success(map[string]any{"ledger_current_index": 7000})
		}
		return failure("invalidTransaction", "fails local checks")
	})

	payment := Payment{
		Source:      Source{Address: "rSender", MaxAmount: Amount{Value: "1", Currency: XRP}},
		Destination: Destination{Address: "rReceiver", Amount: Amount{Value: "1", Currency: XRP}},
	}
	_, err := client.PrepareAndSign(context.Background(), payment, "shhh", Instructions{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestNodeClientSubmit(t *testing.T) {
	client := newTestNode(t, func(req map[string]any) map[string]any {
		assert.Equal(t, "submit", req["command"])
		assert.Equal(t, "DEADBEEF", req["tx_blob"])
		return success(map[string]any{
			"engine_result":         "tesSUCCESS",
			"engine_result_message": "The transaction was applied.",
		})
	})

	result, err := client.Submit(context.Background(), "DEADBEEF")
	require.NoError(t, err)
	assert.True(t, result.Accepted())
}

func TestNodeClientSubmitRejected(t *testing.T) {
	client := newTestNode(t, func(req map[string]any) map[string]any {
		return success(map[string]any{
			"engine_result":         "tecUNFUNDED_PAYMENT",
			"engine_result_message": "Insufficient XRP balance to send.",
		})
	})

	result, err := client.Submit(context.Background(), "DEADBEEF")
	require.NoError(t, err)
	assert.False(t, result.Accepted())
	assert.Equal(t, "tecUNFUNDED_PAYMENT", result.EngineResult)
}

func TestPaymentTxValidation(t *testing.T) {
	client := NewNodeClient("unused")

	_, err := client.paymentTx(context.Background(), Payment{}, Instructions{})
	require.ErrorIs(t, err, ErrValidation)

	mismatched := Payment{
		Source:      Source{Address: "rSender", MaxAmount: Amount{Value: "2", Currency: XRP}},
		Destination: Destination{Address: "rReceiver", Amount: Amount{Value: "1", Currency: XRP}},
	}
	_, err = client.paymentTx(context.Background(), mismatched, Instructions{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDropsFromXRP(t *testing.T) {
	cases := []struct {
		in      string
		out     string
		wantErr bool
	}{
		{in: "105.11", out: "105110000"},
		{in: "0.000001", out: "1"},
		{in: "0", out: "0"},
		{in: "1.0000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := dropsFromXRP(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.out, got, tc.in)
	}
}
