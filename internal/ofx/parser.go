// Package ofx reads OFX/QFX bank and credit card statements and turns their
// entries into ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amountPrecision is the number of decimal places kept from OFX amounts.
const amountPrecision = 2

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that are missing their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement line. Amount is signed: negative for money out.
type Entry struct {
	Date    time.Time
	Amount  decimal.Decimal
	FITID   string
	Account string
	Name    string
	Type    string // e.g. DEBIT, CREDIT, CHECK, ATM
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns its entries in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, account string) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		entries = append(entries, p.convertTransaction(tx, account))
	}
	return entries
}

// convertTransaction converts an OFX transaction to an Entry.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, account string) Entry {
	return Entry{
		FITID:   string(tx.FiTID),
		Account: account,
		Date:    tx.DtPosted.Time,
		Amount:  decimal.NewFromBigRat(&tx.TrnAmt.Rat, amountPrecision),
		Name:    p.extractMerchantName(tx),
		Type:    tx.TrnType.String(),
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually the cleanest name.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Accounts returns the distinct account ids seen in entries, sorted.
func Accounts(entries []Entry) []string {
	var accounts []string
	for _, e := range entries {
		if e.Account != "" && !slices.Contains(accounts, e.Account) {
			accounts = append(accounts, e.Account)
		}
	}
	slices.Sort(accounts)
	return accounts
}

// Key identifies an entry across imports. Banks only promise FITID unique
// within an account, so the account is part of the key. Entries without a
// FITID get a key derived from their content.
func (e Entry) Key() string {
	if e.FITID == "" {
		content := strings.Join([]string{
			e.Account,
			e.Date.Format(time.DateOnly),
			e.Amount.StringFixed(amountPrecision),
			e.Type,
			e.Name,
		}, "|")
		return "gen-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(content)).String()
	}
	if e.Account == "" {
		return e.FITID
	}
	return e.Account + "-" + e.FITID
}

// ToTransactions maps entries onto ledger transactions. Money in is filed
// under income, money out under expense; the stored amount is the magnitude.
// Ids derive from Key so importing the same statement twice is harmless.
// Identical entries without a FITID are numbered in statement order.
func ToTransactions(entries []Entry, income, expense model.Category) ([]model.Transaction, error) {
	if income.Status != model.CategoryTypeIncome {
		return nil, common.Validationf("category %q is not an income category", income.Name)
	}
	if expense.Status != model.CategoryTypeExpense {
		return nil, common.Validationf("category %q is not an expense category", expense.Name)
	}

	txns := make([]model.Transaction, 0, len(entries))
	occurrences := make(map[string]int)
	for _, e := range entries {
		category := expense
		if e.Amount.IsPositive() {
			category = income
		}

		id := "ofx-" + e.Key()
		occurrences[id]++
		if n := occurrences[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		txns = append(txns, model.Transaction{
			ID:          id,
			Date:        e.Date,
			Amount:      e.Amount.Abs(),
			Category:    category,
			Description: e.Name,
		})
	}
	return txns, nil
}
