package mock

import (
	"context"
	"fmt"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

var bankPrefix = []byte("bank/")

// Bank is a token keeper keeping balances in the application store, so
// balance changes follow the cache contexts of the messages that made them.
type Bank struct {
	storeService corestore.KVStoreService
	blocked      map[string]bool
}

// NewBank returns a bank over storeService. Transfers to blocked addresses fail.
func NewBank(storeService corestore.KVStoreService, blocked ...sdk.AccAddress) *Bank {
	b := &Bank{storeService: storeService, blocked: make(map[string]bool)}
	for _, addr := range blocked {
		b.blocked[addr.String()] = true
	}
	return b
}

// ModuleAddress returns the account address of a module.
func ModuleAddress(moduleName string) sdk.AccAddress {
	return address.Module(moduleName)
}

func (b *Bank) store(ctx context.Context) storetypes.KVStore {
	return prefix.NewStore(runtime.KVStoreAdapter(b.storeService.OpenKVStore(ctx)), bankPrefix)
}

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	return []byte(fmt.Sprintf("%s/%s", addr.String(), denom))
}

// GetBalance returns the balance of addr in denom.
func (b *Bank) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := b.store(ctx).Get(balanceKey(addr, denom))
	amount := sdkmath.ZeroInt()
	if bz != nil {
		if err := amount.Unmarshal(bz); err != nil {
			panic(err)
		}
	}
	return sdk.NewCoin(denom, amount)
}

func (b *Bank) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) {
	if coin.Amount.IsZero() {
		b.store(ctx).Delete(balanceKey(addr, coin.Denom))
		return
	}
	bz, err := coin.Amount.Marshal()
	if err != nil {
		panic(err)
	}
	b.store(ctx).Set(balanceKey(addr, coin.Denom), bz)
}

func (b *Bank) add(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) {
	for _, coin := range amt {
		b.setBalance(ctx, addr, b.GetBalance(ctx, addr, coin.Denom).Add(coin))
	}
}

func (b *Bank) sub(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		balance := b.GetBalance(ctx, addr, coin.Denom)
		if balance.IsLT(coin) {
			return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "insufficient funds: %s < %s", balance, coin)
		}
	}
	for _, coin := range amt {
		b.setBalance(ctx, addr, b.GetBalance(ctx, addr, coin.Denom).Sub(coin))
	}
	return nil
}

// Fund credits amt to addr out of thin air.
func (b *Bank) Fund(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) {
	b.add(ctx, addr, amt)
}

// SendCoins moves amt from fromAddr to toAddr.
func (b *Bank) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if err := b.sub(ctx, fromAddr, amt); err != nil {
		return err
	}
	b.add(ctx, toAddr, amt)
	return nil
}

// MintCoins credits amt to the module account.
func (b *Bank) MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	b.add(ctx, ModuleAddress(moduleName), amt)
	return nil
}

// BurnCoins debits amt from the module account.
func (b *Bank) BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	return b.sub(ctx, ModuleAddress(moduleName), amt)
}

// SendCoinsFromModuleToAccount moves amt from the module account to recipientAddr.
func (b *Bank) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return b.SendCoins(ctx, ModuleAddress(senderModule), recipientAddr, amt)
}

// SendCoinsFromAccountToModule moves amt from senderAddr to the module account.
func (b *Bank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return b.SendCoins(ctx, senderAddr, ModuleAddress(recipientModule), amt)
}

// BlockedAddr reports whether addr may not receive funds.
func (b *Bank) BlockedAddr(addr sdk.AccAddress) bool {
	return b.blocked[addr.String()]
}
