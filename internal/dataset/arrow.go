package dataset

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// Schema is the Arrow schema of the simulated table.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: ChannelFSC, Type: arrow.PrimitiveTypes.Float64},
	{Name: ChannelSSC, Type: arrow.PrimitiveTypes.Float64},
	{Name: ChannelFL1, Type: arrow.PrimitiveTypes.Float64},
	{Name: ChannelFL2, Type: arrow.PrimitiveTypes.Float64},
	{Name: "Population", Type: arrow.BinaryTypes.String},
}, nil)

// Record builds an in-memory Arrow record batch of the dataset for
// downstream analysis consumers. The caller owns the returned record and
// must Release it.
func (d *Dataset) Record(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()

	b.Field(0).(*array.Float64Builder).AppendValues(d.FSC, nil)
	b.Field(1).(*array.Float64Builder).AppendValues(d.SSC, nil)
	b.Field(2).(*array.Float64Builder).AppendValues(d.FL1, nil)
	b.Field(3).(*array.Float64Builder).AppendValues(d.FL2, nil)

	pops := b.Field(4).(*array.StringBuilder)
	for _, name := range d.Population {
		pops.Append(name)
	}

	return b.NewRecord()
}
