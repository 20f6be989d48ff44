package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// EVM address regex: 0x followed by exactly 40 hex characters
	evmAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

	// Starknet address regex: 0x followed by up to 64 hex characters
	starknetAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

	txHashRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// ValidateEVMAddress validates an EVM address format and, for mixed-case input, its EIP-55 checksum
func ValidateEVMAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("address must start with 0x")
	}

	if !evmAddressRegex.MatchString(address) {
		return fmt.Errorf("address must be 0x followed by 40 hex characters")
	}

	hexPart := address[2:]
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if common.HexToAddress(address).Hex() != address {
			return fmt.Errorf("bad address checksum")
		}
	}

	return nil
}

// NormalizeEVMAddress returns the lower-cased form used as the cooldown key
func NormalizeEVMAddress(address string) string {
	return strings.ToLower(address)
}

// ValidateStarknetAddress validates a Starknet address format
func ValidateStarknetAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("address must start with 0x")
	}

	if !starknetAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid Starknet address format")
	}

	return nil
}

// NormalizeStarknetAddress pads a Starknet address to 66 characters and lower-cases it
func NormalizeStarknetAddress(address string) string {
	address = strings.ToLower(address)
	if len(address) >= 66 {
		return address
	}

	hexPart := strings.TrimPrefix(address, "0x")
	return "0x" + strings.Repeat("0", 64-len(hexPart)) + hexPart
}

// ValidateTxHash validates a 32-byte hex transaction hash
func ValidateTxHash(hash string) error {
	if !txHashRegex.MatchString(hash) {
		return fmt.Errorf("transaction hash must be 0x followed by 64 hex characters")
	}
	return nil
}
