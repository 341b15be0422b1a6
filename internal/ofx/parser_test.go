package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240130120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024013001
<NAME>CREDIT
<MEMO>ACME CORP PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name      string
		ofxData   string
		wantCount int
		wantErr   bool
	}{
		{name: "bank statement", ofxData: sampleBankOFX, wantCount: 4},
		{name: "credit card statement", ofxData: sampleCreditCardOFX, wantCount: 2},
		{name: "invalid OFX", ofxData: "not an ofx file", wantErr: true},
		{name: "empty file", ofxData: "", wantErr: true},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := parser.ParseFile(context.Background(), strings.NewReader(tt.ofxData))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.wantCount)
		})
	}
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseBankEntries(t *testing.T) {
	entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal(t, "2024011501", first.FITID)
	assert.Equal(t, "1234567890", first.Account)
	assert.Equal(t, "DEBIT", first.Type)
	assert.Equal(t, "STARBUCKS STORE #1234", first.Name)
	assert.True(t, decimal.RequireFromString("-25.50").Equal(first.Amount), first.Amount.String())
	assert.True(t, time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC).Equal(first.Date))

	assert.Equal(t, "CHECK", entries[2].Type)

	// A generic NAME falls back to the memo.
	payroll := entries[3]
	assert.Equal(t, "ACME CORP PAYROLL", payroll.Name)
	assert.True(t, payroll.Amount.IsPositive())
}

func TestParseCreditCardEntries(t *testing.T) {
	entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "4111111111111111", entries[0].Account)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", entries[0].Name)
	assert.True(t, decimal.RequireFromString("-45.99").Equal(entries[0].Amount))
	assert.Equal(t, "NETFLIX.COM", entries[1].Name)
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser()
	got := p.preprocessOFX("\n  <SEVERITY>Info</SEVERITY>\n<CODE\n")
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<CODE>\n", got)
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		expected string
		tx       ofxgo.Transaction
	}{
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "POS 1234", Payee: &ofxgo.Payee{Name: "Corner Bakery"}},
			expected: "Corner Bakery",
		},
		{
			name:     "POS purchase prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "leading date",
			tx:       ofxgo.Transaction{Name: "01/15 SHELL OIL"},
			expected: "SHELL OIL",
		},
		{
			name:     "generic name uses memo",
			tx:       ofxgo.Transaction{Name: "DEBIT", Memo: "CITY WATER DEPT"},
			expected: "CITY WATER DEPT",
		},
		{
			name:     "whitespace trimmed",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractMerchantName(tt.tx))
		})
	}
}

func TestAccounts(t *testing.T) {
	parser := NewParser()

	bank, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	card, err := parser.ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)

	assert.Equal(t, []string{"1234567890"}, Accounts(bank))
	assert.Equal(t, []string{"1234567890", "4111111111111111"}, Accounts(append(card, bank...)))
	assert.Empty(t, Accounts(nil))
}

func TestToTransactions(t *testing.T) {
	entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	salary := categories.Category(categories.CategorySalary)
	food := categories.Category(categories.CategoryFood)
	txns, err := ToTransactions(entries, salary, food)
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, "ofx-1234567890-2024011501", txns[0].ID)
	assert.Equal(t, food, txns[0].Category)
	assert.True(t, decimal.RequireFromString("25.50").Equal(txns[0].Amount))
	assert.Equal(t, "STARBUCKS STORE #1234", txns[0].Description)

	assert.Equal(t, salary, txns[3].Category)
	assert.True(t, txns[3].IsIncome())

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, txn := range txns {
		assert.NoError(t, txn.Validate(now), txn.ID)
	}

	none, err := ToTransactions(nil, salary, food)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestToTransactions_RejectsMismatchedCategories(t *testing.T) {
	salary := categories.Category(categories.CategorySalary)
	food := categories.Category(categories.CategoryFood)

	_, err := ToTransactions(nil, food, food)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = ToTransactions(nil, salary, salary)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestToTransactions_UniqueIDs(t *testing.T) {
	salary := categories.Category(categories.CategorySalary)
	food := categories.Category(categories.CategoryFood)
	day := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)
	coffee := Entry{Date: day, Amount: decimal.RequireFromString("-3.20"), Account: "111", Name: "Coffee", Type: "DEBIT"}

	entries := []Entry{
		{Date: day, Amount: decimal.RequireFromString("-10"), FITID: "A1", Account: "111", Name: "Shop"},
		{Date: day, Amount: decimal.RequireFromString("-10"), FITID: "A1", Account: "222", Name: "Shop"},
		coffee,
		coffee,
	}
	txns, err := ToTransactions(entries, salary, food)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for _, txn := range txns {
		assert.NotContains(t, seen, txn.ID)
		seen[txn.ID] = struct{}{}
	}
	assert.Equal(t, "ofx-111-A1", txns[0].ID)
	assert.Equal(t, "ofx-222-A1", txns[1].ID)
	assert.Equal(t, txns[2].ID+"-2", txns[3].ID)

	again, err := ToTransactions(entries, salary, food)
	require.NoError(t, err)
	assert.Equal(t, txns[2].ID, again[2].ID, "generated ids must be stable across imports")
}

func TestEntry_Key(t *testing.T) {
	day := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "F1", Entry{FITID: "F1"}.Key())
	assert.Equal(t, "acct-F1", Entry{FITID: "F1", Account: "acct"}.Key())

	a := Entry{Date: day, Amount: decimal.RequireFromString("-5"), Name: "Bakery"}
	b := a
	b.Name = "Butcher"
	assert.True(t, strings.HasPrefix(a.Key(), "gen-"))
	assert.NotEqual(t, a.Key(), b.Key())
}
