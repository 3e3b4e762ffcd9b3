package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrLotNotFound indicates that a Buy lot with the given ID does not exist.
	ErrLotNotFound = errors.New("lot not found")

	// ErrPriceNotFound indicates no current price record for a symbol.
	ErrPriceNotFound = errors.New("price not found")

	// ErrNoDividendHistory indicates a symbol has no dividend transactions to analyze.
	ErrNoDividendHistory = errors.New("no dividend history for symbol")

	// ErrTaskNotFound indicates that a background task with the given ID does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSettingNotFound indicates a system setting key has no stored value.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidPortfolioValue indicates the portfolio value computed for a
	// rebalance run was zero or negative, so no targets can be derived from it.
	ErrInvalidPortfolioValue = errors.New("portfolio value must be positive")

	// ErrLotAlreadyClosed indicates an attempt to close a lot with no units remaining.
	ErrLotAlreadyClosed = errors.New("lot already closed")

	// ErrLotOversold indicates a close request for more units than the lot has open.
	ErrLotOversold = errors.New("units to close exceed units remaining")

	// ErrNotBuyLot indicates a lot operation was attempted on a non-Buy transaction.
	ErrNotBuyLot = errors.New("transaction is not a buy lot")

	// ErrSecurityHasPositions indicates that a security cannot be deleted
	// because open lots still reference it.
	ErrSecurityHasPositions = errors.New("security has open positions")

	// ErrInvalidID indicates that a provided ID is not a positive integer.
	ErrInvalidID = errors.New("invalid ID format")

	// Validation errors for required fields
	ErrInvalidSymbol          = errors.New("symbol is required")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidUnits           = errors.New("units must be positive")
	ErrInvalidPrice           = errors.New("price cannot be negative")
	ErrInvalidDate            = errors.New("date parameter is required")
	ErrNegativeAmount         = errors.New("amount cannot be negative")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	// Ledger operation errors
	ErrFailedToRetrieveLots         = errors.New("failed to retrieve open lots")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCloseLots            = errors.New("failed to close lots")

	// Rebalance operation errors
	ErrFailedToRetrieveTargets  = errors.New("failed to retrieve allocation targets")
	ErrFailedToUpdateOverweight = errors.New("failed to update overweight amounts")

	// Price and history operation errors
	ErrFailedToRetrievePrices  = errors.New("failed to retrieve prices")
	ErrFailedToUpdatePrice     = errors.New("failed to update price")
	ErrFailedToRetrieveHistory = errors.New("failed to retrieve security history")

	// Dividend operation errors
	ErrFailedToRetrieveDividends = errors.New("failed to retrieve dividends")

	// Holdings operation errors
	ErrFailedToRetrieveHoldings = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveSectors  = errors.New("failed to retrieve sector data")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
	ErrFailedToStoreSetting   = errors.New("failed to store setting")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a Buy row whose units_remaining exceeds its units).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
