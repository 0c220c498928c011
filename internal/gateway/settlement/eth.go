package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
)

// Minimal ABI of the P2PLending contract; only the surface this service uses.
const p2pLendingABI = `[
  {"type":"function","name":"createLoan","stateMutability":"payable","inputs":[
    {"name":"amount","type":"uint256"},{"name":"interestRate","type":"uint256"},
    {"name":"duration","type":"uint256"},{"name":"totalInstallments","type":"uint256"},
    {"name":"collateralType","type":"uint8"},{"name":"friendWallet","type":"address"},
    {"name":"physicalContacts","type":"string"}],"outputs":[]},
  {"type":"function","name":"acceptLoan","stateMutability":"payable","inputs":[
    {"name":"loanId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"payInstallment","stateMutability":"payable","inputs":[
    {"name":"loanId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"lockFriendCollateral","stateMutability":"payable","inputs":[
    {"name":"loanId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"markAsDefault","stateMutability":"nonpayable","inputs":[
    {"name":"loanId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getLoan","stateMutability":"view","inputs":[
    {"name":"loanId","type":"uint256"}],"outputs":[
    {"name":"borrower","type":"address"},{"name":"lender","type":"address"},
    {"name":"amount","type":"uint256"},{"name":"interestRate","type":"uint256"},
    {"name":"duration","type":"uint256"},{"name":"installmentAmount","type":"uint256"},
    {"name":"totalInstallments","type":"uint256"},{"name":"paidInstallments","type":"uint256"},
    {"name":"status","type":"uint8"},{"name":"collateralLocked","type":"bool"}]},
  {"type":"function","name":"isDefaulter","stateMutability":"view","inputs":[
    {"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getCreditScore","stateMutability":"view","inputs":[
    {"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"LoanCreated","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"borrower","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}],"anonymous":false}
]`

var errTxReverted = errors.New("transaction reverted")

// EthGateway settles against the P2PLending contract over JSON-RPC. It is
// constructed once at startup and injected into every component that needs
// it; there is no lazily-initialized shared handle.
type EthGateway struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	parsed   abi.ABI
	auth     *bind.TransactOpts
}

func Dial(ctx context.Context, rpcURL, contractAddr, privateKeyHex string, chainID int64) (*EthGateway, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(p2pLendingABI))
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(contractAddr)
	contract := bind.NewBoundContract(addr, parsed, client, client, client)
	return &EthGateway{client: client, contract: contract, parsed: parsed, auth: auth}, nil
}

func (g *EthGateway) Close() { g.client.Close() }

func (g *EthGateway) opts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	return &bind.TransactOpts{
		From:    g.auth.From,
		Signer:  g.auth.Signer,
		Value:   value,
		Context: ctx,
	}
}

func weiFromEth(amount float64) *big.Int {
	return decimal.NewFromFloat(amount).Mul(decimal.New(1, 18)).BigInt()
}

func ethFromWei(wei *big.Int) float64 {
	return decimal.NewFromBigInt(wei, -18).InexactFloat64()
}

func (g *EthGateway) transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	tx, err := g.contract.Transact(g.opts(ctx, value), method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	receipt, err := bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return nil, fmt.Errorf("%s wait mined: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s: %w", method, errTxReverted)
	}
	return receipt, nil
}

func collateralEnum(t loanrequest.CollateralType) uint8 {
	switch t {
	case loanrequest.CollateralOwnETH:
		return 0
	case loanrequest.CollateralFriendETH:
		return 1
	default:
		return 2
	}
}

func (g *EthGateway) CreateLoan(ctx context.Context, p CreateParams) (*CreateResult, error) {
	amountWei := weiFromEth(p.Amount)
	friend := common.Address{}
	if p.FriendWallet != "" {
		friend = common.HexToAddress(p.FriendWallet)
	}
	// OwnETH collateral is escrowed with the creation call itself.
	value := big.NewInt(0)
	if p.CollateralType == loanrequest.CollateralOwnETH {
		value = amountWei
	}
	receipt, err := g.transact(ctx, value, "createLoan",
		amountWei,
		big.NewInt(int64(p.InterestBps)),
		big.NewInt(int64(p.DurationDays)),
		big.NewInt(int64(p.TotalInstallments)),
		collateralEnum(p.CollateralType),
		friend,
		p.PhysicalContacts,
	)
	if err != nil {
		return nil, err
	}
	loanID, err := g.loanIDFromLogs(receipt)
	if err != nil {
		return nil, err
	}
	return &CreateResult{
		TxHash:         receipt.TxHash.Hex(),
		ExternalLoanID: loanID,
		BlockNumber:    receipt.BlockNumber.Uint64(),
	}, nil
}

func (g *EthGateway) loanIDFromLogs(receipt *types.Receipt) (int64, error) {
	eventID := g.parsed.Events["LoanCreated"].ID
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 1 && lg.Topics[0] == eventID {
			return new(big.Int).SetBytes(lg.Topics[1].Bytes()).Int64(), nil
		}
	}
	return 0, errors.New("LoanCreated event missing from receipt")
}

func (g *EthGateway) AcceptLoan(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error) {
	receipt, err := g.transact(ctx, weiFromEth(amount), "acceptLoan", big.NewInt(externalLoanID))
	if err != nil {
		return nil, err
	}
	return &Receipt{TxHash: receipt.TxHash.Hex(), BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

func (g *EthGateway) PayInstallment(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error) {
	receipt, err := g.transact(ctx, weiFromEth(amount), "payInstallment", big.NewInt(externalLoanID))
	if err != nil {
		return nil, err
	}
	return &Receipt{TxHash: receipt.TxHash.Hex(), BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

func (g *EthGateway) LockFriendCollateral(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error) {
	receipt, err := g.transact(ctx, weiFromEth(amount), "lockFriendCollateral", big.NewInt(externalLoanID))
	if err != nil {
		return nil, err
	}
	return &Receipt{TxHash: receipt.TxHash.Hex(), BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

func (g *EthGateway) MarkAsDefault(ctx context.Context, externalLoanID int64) (*Receipt, error) {
	receipt, err := g.transact(ctx, big.NewInt(0), "markAsDefault", big.NewInt(externalLoanID))
	if err != nil {
		return nil, err
	}
	return &Receipt{TxHash: receipt.TxHash.Hex(), BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

func (g *EthGateway) GetLoanDetails(ctx context.Context, externalLoanID int64) (*LoanSnapshot, error) {
	var out []any
	err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getLoan", big.NewInt(externalLoanID))
	if err != nil {
		return nil, fmt.Errorf("getLoan: %w", err)
	}
	if len(out) != 10 {
		return nil, fmt.Errorf("getLoan: unexpected output arity %d", len(out))
	}
	return &LoanSnapshot{
		ExternalLoanID:    externalLoanID,
		Borrower:          strings.ToLower(out[0].(common.Address).Hex()),
		Lender:            strings.ToLower(out[1].(common.Address).Hex()),
		Amount:            ethFromWei(out[2].(*big.Int)),
		InterestBps:       int(out[3].(*big.Int).Int64()),
		DurationDays:      int(out[4].(*big.Int).Int64()),
		InstallmentAmount: ethFromWei(out[5].(*big.Int)),
		TotalInstallments: int(out[6].(*big.Int).Int64()),
		PaidInstallments:  int(out[7].(*big.Int).Int64()),
		Status:            int(out[8].(uint8)),
		CollateralLocked:  out[9].(bool),
	}, nil
}

func (g *EthGateway) IsDefaulter(ctx context.Context, wallet string) (bool, error) {
	var out []any
	err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isDefaulter", common.HexToAddress(wallet))
	if err != nil {
		return false, fmt.Errorf("isDefaulter: %w", err)
	}
	return out[0].(bool), nil
}

func (g *EthGateway) GetCreditScore(ctx context.Context, wallet string) (int64, error) {
	var out []any
	err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCreditScore", common.HexToAddress(wallet))
	if err != nil {
		return 0, fmt.Errorf("getCreditScore: %w", err)
	}
	return out[0].(*big.Int).Int64(), nil
}

var _ Gateway = (*EthGateway)(nil)
