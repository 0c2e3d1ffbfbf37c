package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"secretharness/internal/cache"
	"secretharness/internal/daemon"
	"secretharness/internal/models"
)

// Daemon defaults, matching what the chain's local testnet accounts expect
const (
	DefaultStoreUser      = "a"
	DefaultStoreGas       = "10000000"
	DefaultInstantiateGas = "10000000"
	DefaultExecuteGas     = "800000"

	// SignDocFile is the working-directory file handed to `tx sign-doc`
	SignDocFile = "tx_to_sign"
)

// StoreOpts tunes a `tx compute store` call; zero values take defaults
type StoreOpts struct {
	User    string // defaults to DefaultStoreUser
	Gas     string // defaults to DefaultStoreGas
	Backend string // keyring backend, omitted when empty
}

// TxOpts tunes an instantiate call; zero values take defaults
type TxOpts struct {
	Gas     string // defaults to DefaultInstantiateGas
	Backend string // keyring backend, omitted when empty
}

// ExecuteOpts tunes an execute call; zero values take defaults
type ExecuteOpts struct {
	Gas     string // defaults to DefaultExecuteGas
	Backend string // keyring backend, omitted when empty
	Amount  string // attached funds, omitted when empty
}

// Client wraps the daemon runner with typed contract operations and a
// deployment cache
type Client struct {
	runner daemon.Runner
	cache  *cache.Store
}

// NewClient creates a harness client over the given runner and cache
func NewClient(runner daemon.Runner, store *cache.Store) *Client {
	return &Client{
		runner: runner,
		cache:  store,
	}
}

// Cache exposes the deployment cache (tests and callers may seed it)
func (c *Client) Cache() *cache.Store { return c.cache }

// StoreContract uploads contract bytecode from path
func (c *Client) StoreContract(ctx context.Context, path string, opts StoreOpts) (*models.TxResponse, error) {
	args := []string{
		"tx", "compute", "store", path,
		"--from", orDefault(opts.User, DefaultStoreUser),
		"--gas", orDefault(opts.Gas, DefaultStoreGas),
	}
	args = appendBackend(args, opts.Backend)
	args = append(args, "-y")

	var resp models.TxResponse
	if err := c.runJSON(ctx, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstantiateContract creates an instance of a stored code id. The init
// message is serialized to a JSON string argument.
func (c *Client) InstantiateContract(ctx context.Context, contract *models.NetContract, initMsg any, label, sender string, opts TxOpts) (*models.TxResponse, error) {
	msg, err := json.Marshal(initMsg)
	if err != nil {
		return nil, fmt.Errorf("serializing init message: %w", err)
	}

	args := []string{
		"tx", "compute", "instantiate", contract.ID, string(msg),
		"--from", sender,
		"--label", label,
		"--gas", orDefault(opts.Gas, DefaultInstantiateGas),
	}
	args = appendBackend(args, opts.Backend)
	args = append(args, "-y")

	var resp models.TxResponse
	if err := c.runJSON(ctx, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteContract submits an execute message to an instantiated contract
func (c *Client) ExecuteContract(ctx context.Context, contract *models.NetContract, execMsg any, sender string, opts ExecuteOpts) (*models.TxResponse, error) {
	msg, err := json.Marshal(execMsg)
	if err != nil {
		return nil, fmt.Errorf("serializing execute message: %w", err)
	}

	args := []string{
		"tx", "compute", "execute", contract.Address, string(msg),
		"--from", sender,
		"--gas", orDefault(opts.Gas, DefaultExecuteGas),
	}
	args = appendBackend(args, opts.Backend)
	if opts.Amount != "" {
		args = append(args, "--amount", opts.Amount)
	}
	args = append(args, "-y")

	var resp models.TxResponse
	if err := c.runJSON(ctx, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryContract runs a smart query against the contract, deserializing the
// response into out
func (c *Client) QueryContract(ctx context.Context, contract *models.NetContract, queryMsg any, out any) error {
	msg, err := json.Marshal(queryMsg)
	if err != nil {
		return fmt.Errorf("serializing query message: %w", err)
	}

	args := []string{"query", "compute", "query", contract.Address, string(msg)}
	return c.runJSON(ctx, args, out)
}

// QueryTx fetches the full on-chain result of a transaction by hash
func (c *Client) QueryTx(ctx context.Context, hash string) (*models.TxQuery, error) {
	var q models.TxQuery
	if err := c.runJSON(ctx, []string{"q", "tx", hash}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ComputeTx fetches the decrypted compute result of a transaction by hash
func (c *Client) ComputeTx(ctx context.Context, hash string) (*models.TxCompute, error) {
	var comp models.TxCompute
	if err := c.runJSON(ctx, []string{"q", "compute", "tx", hash}, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

// ListCode lists every stored contract code
func (c *Client) ListCode(ctx context.Context) ([]models.ListCodeResponse, error) {
	var list []models.ListCodeResponse
	if err := c.runJSON(ctx, []string{"query", "compute", "list-code"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListContractsByCode lists the contracts instantiated from a code id
func (c *Client) ListContractsByCode(ctx context.Context, codeID string) ([]models.ListContractCode, error) {
	var list []models.ListContractCode
	if err := c.runJSON(ctx, []string{"query", "compute", "list-contract-by-code", codeID}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AccountAddress resolves a key name to its bech32 address. The daemon
// prints the address as plain text, so this skips JSON entirely.
func (c *Client) AccountAddress(ctx context.Context, keyName string) (string, error) {
	return c.runner.RunRaw(ctx, []string{"keys", "show", "-a", keyName})
}

// CreatePermit signs a document with the given key, producing a permit
// usable for authenticated off-chain queries. The document is staged in
// SignDocFile, which is removed again on every exit path.
func (c *Client) CreatePermit(ctx context.Context, doc any, signer string) (*models.SignedTx, error) {
	msg, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing sign document: %w", err)
	}

	if err := os.WriteFile(SignDocFile, msg, 0o600); err != nil {
		return nil, fmt.Errorf("staging sign document: %w", err)
	}
	defer os.Remove(SignDocFile)

	var signed models.SignedTx
	if err := c.runJSON(ctx, []string{"tx", "sign-doc", SignDocFile, "--from", signer}, &signed); err != nil {
		return nil, err
	}
	return &signed, nil
}

// runJSON invokes the daemon and deserializes its JSON output into out.
// A schema mismatch is reported the same way as invalid JSON, since the
// daemon's error output never matches the expected shape.
func (c *Client) runJSON(ctx context.Context, args []string, out any) error {
	raw, err := c.runner.Run(ctx, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &daemon.ParseError{Output: raw, Err: err}
	}
	return nil
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func appendBackend(args []string, backend string) []string {
	if backend != "" {
		return append(args, "--keyring-backend", backend)
	}
	return args
}
