package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// NFTMetadata is the verified metadata of a presented NFT.
type NFTMetadata struct {
	Mint               string `json:"mint"`
	Collection         string `json:"collection"`
	CollectionVerified bool   `json:"collection_verified"`
}

// MetadataProvider verifies collection membership for a presented NFT.
// The controller fails the whole operation with CollectionMismatch when
// membership is false or unverified, and MintMismatch when the claimed mint
// does not match the verified one.
type MetadataProvider interface {
	Lookup(ctx context.Context, mint string) (*NFTMetadata, error)
}

// CustodyProvider performs token custody operations against the external
// ledger. Any failure is fatal to the enclosing lifecycle operation; the
// controller never credits a reward whose transfer failed.
type CustodyProvider interface {
	// Delegate grants the stake authority custody over a player's NFT
	// without transferring ownership.
	Delegate(ctx context.Context, owner, mint, delegate string) error

	// Revoke returns full custody control to the owner.
	Revoke(ctx context.Context, owner, mint string) error

	// Transfer moves amount of the asset from source to destination.
	Transfer(ctx context.Context, asset, source, destination string, amount decimal.Decimal) error
}
