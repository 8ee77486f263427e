package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blackghost1987/payment-engine/payments"
	"github.com/blackghost1987/payment-engine/payments/log"
	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// ErrParse is wrapped by every error ReadTransactions returns.
var ErrParse = errors.New("parse transactions")

// Column names of the input header.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

type columns struct {
	kind   int
	client int
	tx     int
	amount int
}

// ReadTransactions parses the whole log from r. The first malformed row aborts
// the read; its line number is part of the error.
func ReadTransactions(ctx context.Context, r io.Reader) ([]transaction.Record, error) {
	logger := payments.NewLoggerFromContext(ctx)

	reader := stdcsv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrParse)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	records := make([]transaction.Record, 0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		line, _ := reader.FieldPos(0)

		record, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}

		logger.Log(ctx, log.LevelDebug, "transaction loaded",
			log.String("type", record.Kind.String()),
			log.Int("client", int(record.Client)),
			log.Uint64("tx", uint64(record.ID)),
		)

		records = append(records, record)
	}

	logger.Log(ctx, log.LevelDebug, "transactions loaded", log.Int("count", len(records)))

	return records, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnType:
			cols.kind = i
		case ColumnClient:
			cols.client = i
		case ColumnTx:
			cols.tx = i
		case ColumnAmount:
			cols.amount = i
		}
	}

	var missing []string

	if cols.kind < 0 {
		missing = append(missing, ColumnType)
	}

	if cols.client < 0 {
		missing = append(missing, ColumnClient)
	}

	if cols.tx < 0 {
		missing = append(missing, ColumnTx)
	}

	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: header is missing %s", ErrParse, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRow(row []string, cols columns) (transaction.Record, error) {
	kind, err := transaction.ParseKind(field(row, cols.kind))
	if err != nil {
		return transaction.Record{}, err
	}

	client, err := strconv.ParseUint(field(row, cols.client), 10, 16)
	if err != nil {
		return transaction.Record{}, fmt.Errorf("client: %w", err)
	}

	id, err := strconv.ParseUint(field(row, cols.tx), 10, 32)
	if err != nil {
		return transaction.Record{}, fmt.Errorf("tx: %w", err)
	}

	record := transaction.Record{
		Kind:   kind,
		Client: transaction.ClientID(client),
		ID:     transaction.ID(id),
	}

	if raw := field(row, cols.amount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return transaction.Record{}, fmt.Errorf("amount: %w", err)
		}

		record.Amount = &amount
	}

	return record, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
