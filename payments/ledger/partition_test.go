//go:build unit

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackghost1987/payment-engine/payments/transaction"
)

func TestPartitionByClient(t *testing.T) {
	t.Parallel()

	records := []transaction.Record{
		deposit(2, 1, "1"),
		deposit(1, 2, "2"),
		withdrawal(2, 3, "1"),
		reference(transaction.KindDispute, 1, 2),
		deposit(3, 4, "4"),
		reference(transaction.KindResolve, 1, 2),
	}

	partitions := PartitionByClient(records)
	require.Len(t, partitions, 3)

	assert.Equal(t, transaction.ClientID(2), partitions[0].Client)
	assert.Equal(t, []transaction.Record{records[0], records[2]}, partitions[0].Records)

	assert.Equal(t, transaction.ClientID(1), partitions[1].Client)
	assert.Equal(t, []transaction.Record{records[1], records[3], records[5]}, partitions[1].Records)

	assert.Equal(t, transaction.ClientID(3), partitions[2].Client)
	assert.Equal(t, []transaction.Record{records[4]}, partitions[2].Records)
}

func TestPartitionByClient_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, PartitionByClient(nil))
}
