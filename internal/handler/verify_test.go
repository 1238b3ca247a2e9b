package handler

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/fairness"
)

func postVerify(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/verify", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleVerify().ServeHTTP(w, req)
	return w
}

func testServerSeed() ([]byte, string) {
	seed := bytes.Repeat([]byte{0xab}, 32)
	return seed, hex.EncodeToString(seed)
}

func TestHandleVerify_CrashOutcome(t *testing.T) {
	serverSeed, seedHex := testServerSeed()

	w := postVerify(t, `{
		"game": "crash",
		"server_seed": "`+seedHex+`",
		"client_seed": "player-seed",
		"nonce": 0
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, domain.HashSeed(serverSeed), resp.ServerSeedHash)
	assert.GreaterOrEqual(t, resp.Result.CrashMultiplier, 1.0)
	assert.Nil(t, resp.DigestMatches)

	// The endpoint must agree with the engine's own derivation.
	expected, err := fairness.Recompute(
		domain.SeedPair{ServerSeed: serverSeed, ClientSeed: "player-seed"},
		0,
		fairness.RecomputeParams{Game: domain.GameCrash},
	)
	require.NoError(t, err)
	assert.Equal(t, expected.CrashMultiplier, resp.Result.CrashMultiplier)
	assert.Equal(t, expected.Digest, resp.Result.Digest)
}

func TestHandleVerify_ClaimedDigest(t *testing.T) {
	serverSeed, seedHex := testServerSeed()

	expected, err := fairness.Recompute(
		domain.SeedPair{ServerSeed: serverSeed, ClientSeed: "player-seed"},
		7,
		fairness.RecomputeParams{Game: domain.GameDice},
	)
	require.NoError(t, err)

	t.Run("matching digest", func(t *testing.T) {
		w := postVerify(t, `{
			"game": "dice",
			"server_seed": "`+seedHex+`",
			"client_seed": "player-seed",
			"nonce": 7,
			"claimed_digest": "`+expected.Digest+`"
		}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.DigestMatches)
		assert.True(t, *resp.DigestMatches)
		require.NotNil(t, resp.Result.DiceRoll)
	})

	t.Run("wrong digest", func(t *testing.T) {
		wrong := strings.Repeat("00", 32)
		w := postVerify(t, `{
			"game": "dice",
			"server_seed": "`+seedHex+`",
			"client_seed": "player-seed",
			"nonce": 7,
			"claimed_digest": "`+wrong+`"
		}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.DigestMatches)
		assert.False(t, *resp.DigestMatches)
	})
}

func TestHandleVerify_PlinkoPath(t *testing.T) {
	_, seedHex := testServerSeed()

	w := postVerify(t, `{
		"game": "plinko",
		"server_seed": "`+seedHex+`",
		"client_seed": "player-seed",
		"nonce": 3,
		"rows": 16
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.PlinkoPath, 16)
}

func TestHandleVerify_Rejections(t *testing.T) {
	_, seedHex := testServerSeed()

	tests := []struct {
		name string
		body string
		code int
	}{
		{
			name: "malformed json",
			body: `{"game": `,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown game",
			body: `{"game": "roulette", "server_seed": "` + seedHex + `", "client_seed": "x"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "missing server seed",
			body: `{"game": "crash", "client_seed": "x"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "non-hex server seed",
			body: `{"game": "crash", "server_seed": "zzzz", "client_seed": "x"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "plinko without rows",
			body: `{"game": "plinko", "server_seed": "` + seedHex + `", "client_seed": "x"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "claimed digest wrong length",
			body: `{"game": "crash", "server_seed": "` + seedHex + `", "client_seed": "x", "claimed_digest": "abcd"}`,
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postVerify(t, tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
