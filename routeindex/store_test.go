package routeindex

import (
	"context"
	"math/big"
	"path"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/router"
)

var (
	routerAddr = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	admin      = common.HexToAddress("0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")
	feeRcpt    = common.HexToAddress("0xfefefefefefefefefefefefefefefefefefefefe")
	asset      = common.HexToAddress("0x3333333333333333333333333333333333333333")
	target     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	alice      = common.HexToAddress("0x4444444444444444444444444444444444444444")
	bob        = common.HexToAddress("0x5555555555555555555555555555555555555555")
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(log.WithFields("module", "routeindex-test"), Config{
		DBPath: path.Join(t.TempDir(), "routes.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newIndexedRouter(t *testing.T, s *Store) (*router.Router, *router.MemoryLedger) {
	t.Helper()
	ledger := router.NewMemoryLedger()
	r, err := router.New(nil, router.Identity{
		Address:      routerAddr,
		ChainID:      11155111,
		Admin:        admin,
		FeeRecipient: feeRcpt,
	}, ledger, router.WithEventSink(s))
	require.NoError(t, err)
	for _, a := range []common.Address{alice, bob} {
		ledger.Mint(asset, a, big.NewInt(1_000_000))
		ledger.Approve(asset, a, routerAddr, big.NewInt(1_000_000))
	}
	return r, ledger
}

func args(nonce uint64) router.RouteArgs {
	return router.RouteArgs{
		Asset:       asset,
		Amount:      big.NewInt(10_000),
		ProtocolFee: big.NewInt(30),
		RelayerFee:  big.NewInt(5),
		Target:      target,
		DstChainID:  84532,
		Nonce:       nonce,
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(nil, Config{})
	require.Error(t, err)
}

func TestStoreIndexesRouterEvents(t *testing.T) {
	s := newTestStore(t)
	r, _ := newIndexedRouter(t, s)
	ctx := context.Background()

	first, err := r.Bridge(ctx, alice, args(1))
	require.NoError(t, err)
	_, err = r.Bridge(ctx, bob, args(1))
	require.NoError(t, err)
	last, err := r.Bridge(ctx, alice, args(2))
	require.NoError(t, err)

	count, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 3, count)

	got, err := s.GetByMessageHash(first.MessageHash)
	require.NoError(t, err)
	require.Equal(t, first, got.Event())
	require.Equal(t, big.NewInt(9_965), got.Net)

	got, err = s.GetByGlobalRouteID(last.GlobalRouteID)
	require.NoError(t, err)
	require.Equal(t, last.MessageHash, got.MessageHash)

	byAlice, err := s.ListByInitiator(alice, 10)
	require.NoError(t, err)
	require.Len(t, byAlice, 2)
	require.Equal(t, uint64(2), byAlice[0].Nonce)
	require.Equal(t, uint64(1), byAlice[1].Nonce)

	latest, err := s.LastN(1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, last.MessageHash, latest[0].MessageHash)
}

func TestStoreNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetByMessageHash(common.HexToHash("0x01"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetByGlobalRouteID(common.HexToHash("0x01"))
	require.ErrorIs(t, err, ErrNotFound)
	routes, err := s.LastN(5)
	require.NoError(t, err)
	require.Empty(t, routes)
}

func TestStoreRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ev := router.BridgeInitiated{
		Initiator:   alice,
		Asset:       asset,
		Amount:      big.NewInt(100),
		ProtocolFee: big.NewInt(1),
		RelayerFee:  big.NewInt(1),
		Net:         big.NewInt(98),
		Target:      target,
		SrcChainID:  0x36a7,
		DstChainID:  84532,
		Nonce:       9,
		MessageHash: common.HexToHash("0xabcd"),
		IntentHash:  common.HexToHash("0x1234"),
		Relayer:     bob,
	}
	require.NoError(t, s.OnBridgeInitiated(context.Background(), ev))
	require.ErrorIs(t, s.OnBridgeInitiated(context.Background(), ev), ErrAlreadyIndexed)

	got, err := s.GetByMessageHash(ev.MessageHash)
	require.NoError(t, err)
	require.True(t, got.Event().Signed())
	require.Equal(t, bob, got.Relayer)
}

func TestStoreKeepsRoutesSharingMessageHash(t *testing.T) {
	s := newTestStore(t)
	r, ledger := newIndexedRouter(t, s)
	ctx := context.Background()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	ledger.Mint(asset, signer, big.NewInt(1_000_000))
	ledger.Approve(asset, signer, routerAddr, big.NewInt(1_000_000))

	routeArgs := args(7)
	direct, err := r.Bridge(ctx, signer, routeArgs)
	require.NoError(t, err)

	var signed []router.BridgeInitiated
	for _, routeID := range []string{"0x01", "0x02"} {
		intent := hashing.RouteIntent{
			RouteID:     common.HexToHash(routeID),
			Token:       routeArgs.Asset,
			Amount:      routeArgs.Amount,
			ProtocolFee: routeArgs.ProtocolFee,
			RelayerFee:  routeArgs.RelayerFee,
			Target:      routeArgs.Target,
			DstChainID:  routeArgs.DstChainID,
			Nonce:       routeArgs.Nonce,
			Expiry:      uint64(time.Now().Add(time.Hour).Unix()),
			PayloadHash: hashing.PayloadHash(routeArgs.Payload),
			Recipient:   signer,
		}
		sig, err := hashing.SignIntent(key, r.Domain(), intent)
		require.NoError(t, err)
		ev, err := r.BridgeWithSignature(ctx, bob, routeArgs, intent, sig, signer)
		require.NoError(t, err)
		require.Equal(t, direct.MessageHash, ev.MessageHash)
		signed = append(signed, ev)
	}

	count, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 3, count)

	routes, err := s.ListByMessageHash(direct.MessageHash)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	require.False(t, routes[0].Event().Signed())
	require.Equal(t, signed[0].IntentHash, routes[1].IntentHash)
	require.Equal(t, signed[1].IntentHash, routes[2].IntentHash)

	latest, err := s.GetByMessageHash(direct.MessageHash)
	require.NoError(t, err)
	require.Equal(t, signed[1], latest.Event())

	bySigner, err := s.ListByInitiator(signer, 10)
	require.NoError(t, err)
	require.Len(t, bySigner, 3)
}
