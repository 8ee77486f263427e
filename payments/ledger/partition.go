package ledger

import "github.com/blackghost1987/payment-engine/payments/transaction"

// Partition is the subsequence of records that belong to one client.
type Partition struct {
	Client  transaction.ClientID
	Records []transaction.Record
}

// PartitionByClient groups records by client. Partitions are ordered by the
// first appearance of their client and keep the relative order of its records.
func PartitionByClient(records []transaction.Record) []Partition {
	index := make(map[transaction.ClientID]int)
	partitions := make([]Partition, 0)

	for _, record := range records {
		i, ok := index[record.Client]
		if !ok {
			i = len(partitions)
			index[record.Client] = i
			partitions = append(partitions, Partition{Client: record.Client})
		}

		partitions[i].Records = append(partitions[i].Records, record)
	}

	return partitions
}
