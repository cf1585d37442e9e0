package model

import (
	"strings"

	"github.com/kasflow/txbuilder/errors"
)

// addressCharset is the bech32 character set used by address payloads.
const addressCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var networkPrefixes = map[string]string{
	"mainnet":    "kaspa",
	"testnet":    "kaspatest",
	"testnet-10": "kaspatest",
	"testnet-11": "kaspatest",
	"simnet":     "kaspasim",
	"devnet":     "kaspadev",
}

// AddressPrefix returns the expected address prefix for a network id.
func AddressPrefix(network string) (string, error) {
	prefix, ok := networkPrefixes[network]
	if !ok {
		return "", errors.NewInvalidRequestError("unknown network id: %q", network)
	}

	return prefix, nil
}

// ValidateAddress checks that address is a well-formed address for the given
// network: <prefix>:<payload> with a bech32 payload of plausible length.
// Full checksum verification is the signer's job; this guards against
// obviously malformed or cross-network addresses.
func ValidateAddress(network, address string) error {
	prefix, err := AddressPrefix(network)
	if err != nil {
		return err
	}

	part0, payload, found := strings.Cut(address, ":")
	if !found {
		return errors.NewInvalidRequestError("address %q is missing the network prefix", address)
	}

	if part0 != prefix {
		return errors.NewInvalidRequestError("address %q does not match network %s (expected prefix %q)", address, network, prefix)
	}

	if len(payload) < 61 || len(payload) > 63 {
		return errors.NewInvalidRequestError("address %q has an invalid payload length %d", address, len(payload))
	}

	for _, c := range payload {
		if !strings.ContainsRune(addressCharset, c) {
			return errors.NewInvalidRequestError("address %q contains invalid character %q", address, c)
		}
	}

	return nil
}
