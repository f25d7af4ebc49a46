package internal

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarianw/parquet-cpp/format"
)

// テスト用のスキーマ。ネストした列を含む4列
func testSchema() *Schema {
	return NewSchema(NewGroupNode("schema", format.Required,
		NewPrimitiveNode("id", format.Required, format.Int64),
		NewGroupNode("name", format.Optional,
			NewPrimitiveNode("first", format.Optional, format.ByteArray),
			NewPrimitiveNode("last", format.Required, format.ByteArray),
		),
		NewPrimitiveNode("score", format.Optional, format.Double),
	))
}

// 全列チャンクを finishColumn で埋めた行グループ群を持つ FileMetaData を組み立てる
func buildTestFileMetaData(t *testing.T, props *WriterProperties, rowCounts []int64) *FileMetaData {
	t.Helper()

	schema := testSchema()
	builder := NewFileMetaDataBuilder(schema, props)

	offset := int64(4)
	for _, numRows := range rowCounts {
		rowGroup := builder.AppendRowGroup(numRows)

		var totalBytes int64
		for i := 0; i < schema.NumColumns(); i++ {
			column, err := rowGroup.NextColumnChunk()
			require.NoError(t, err)

			column.Finish(numRows, 0, 0, offset, 100, 150, false)
			offset += 100
			totalBytes += 100
		}
		require.NoError(t, rowGroup.Finish(totalBytes))
	}

	metadata, err := builder.Finish()
	require.NoError(t, err)
	return metadata
}

func TestColumnChunkFileOffset(t *testing.T) {
	tests := []struct {
		name               string
		dictPageOffset     int64
		dataPageOffset     int64
		compressedSize     int64
		expectedFileOffset int64
	}{
		{
			// 辞書ページがチャンクの先頭になる
			name:               "dictionary page branch",
			dictPageOffset:     100,
			dataPageOffset:     200,
			compressedSize:     50,
			expectedFileOffset: 150,
		},
		{
			// 辞書ページが無ければデータページが先頭
			name:               "data page branch",
			dictPageOffset:     0,
			dataPageOffset:     200,
			compressedSize:     50,
			expectedFileOffset: 250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := testSchema()
			rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

			column, err := rowGroup.NextColumnChunk()
			require.NoError(t, err)

			column.Finish(10, tt.dictPageOffset, 0, tt.dataPageOffset, tt.compressedSize, 100, false)
			assert.Equal(t, tt.expectedFileOffset, column.FileOffset())
		})
	}
}

func TestColumnChunkEncodings(t *testing.T) {
	tests := []struct {
		name     string
		opts     []WriterOption
		fallback bool
		expected []format.Encoding
	}{
		{
			name:     "dictionary enabled v2",
			opts:     []WriterOption{WithVersion(ParquetV2)},
			expected: []format.Encoding{format.RLE, format.Plain, format.RLEDictionary},
		},
		{
			name:     "dictionary enabled v1",
			opts:     []WriterOption{WithVersion(ParquetV1)},
			expected: []format.Encoding{format.RLE, format.PlainDictionary},
		},
		{
			name: "dictionary disabled",
			opts: []WriterOption{
				WithVersion(ParquetV2),
				WithDictionary(false),
				WithEncoding(format.DeltaBinaryPacked),
			},
			expected: []format.Encoding{format.RLE, format.DeltaBinaryPacked},
		},
		{
			name: "dictionary fallback v2",
			opts: []WriterOption{
				WithVersion(ParquetV2),
				WithEncoding(format.DeltaBinaryPacked),
			},
			fallback: true,
			expected: []format.Encoding{
				format.RLE, format.Plain, format.RLEDictionary, format.DeltaBinaryPacked,
			},
		},
		{
			name: "dictionary disabled for single path",
			opts: []WriterOption{
				WithVersion(ParquetV2),
				WithDictionaryFor("id", false),
				WithEncodingFor("id", format.DeltaBinaryPacked),
			},
			expected: []format.Encoding{format.RLE, format.DeltaBinaryPacked},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := testSchema()
			props := NewWriterProperties(tt.opts...)
			rowGroup := NewFileMetaDataBuilder(schema, props).AppendRowGroup(10)

			column, err := rowGroup.NextColumnChunk() // "id" 列
			require.NoError(t, err)

			column.Finish(10, 0, 0, 4, 100, 150, tt.fallback)
			assert.Equal(t, tt.expected, column.chunk.MetaData.Encodings)
		})
	}
}

func TestColumnChunkStatistics(t *testing.T) {
	metadata := buildTestFileMetaData(t, NewWriterProperties(), []int64{10})

	rowGroup, err := metadata.RowGroup(0)
	require.NoError(t, err)
	column, err := rowGroup.ColumnChunk(0)
	require.NoError(t, err)

	// 統計値を付けずに Finish した列では未設定
	assert.False(t, column.IsStatsSet())

	schema := testSchema()
	builder := NewFileMetaDataBuilder(schema, NewWriterProperties())
	rg := builder.AppendRowGroup(5)

	for i := 0; i < schema.NumColumns(); i++ {
		col, err := rg.NextColumnChunk()
		require.NoError(t, err)
		if i == 0 {
			col.SetStatistics(ColumnStatistics{
				NullCount:     1,
				DistinctCount: 4,
				Min:           []byte{0x01},
				Max:           []byte{0xff},
			})
		}
		col.Finish(5, 0, 0, 4, 10, 10, false)
	}
	require.NoError(t, rg.Finish(int64(10*schema.NumColumns())))

	built, err := builder.Finish()
	require.NoError(t, err)

	rowGroup, err = built.RowGroup(0)
	require.NoError(t, err)

	withStats, err := rowGroup.ColumnChunk(0)
	require.NoError(t, err)
	require.True(t, withStats.IsStatsSet())

	stats := withStats.Statistics()
	assert.Equal(t, int64(1), stats.NullCount)
	assert.Equal(t, int64(4), stats.DistinctCount)
	assert.Equal(t, []byte{0x01}, stats.Min)
	assert.Equal(t, []byte{0xff}, stats.Max)

	withoutStats, err := rowGroup.ColumnChunk(1)
	require.NoError(t, err)
	assert.False(t, withoutStats.IsStatsSet())
}

func TestNextColumnChunkExhausted(t *testing.T) {
	schema := testSchema()
	rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

	for i := 0; i < schema.NumColumns(); i++ {
		column, err := rowGroup.NextColumnChunk()
		require.NoError(t, err)
		column.Finish(10, 0, 0, 4, 10, 10, false)
	}

	_, err := rowGroup.NextColumnChunk()
	assert.ErrorContains(t, err, "the schema only has 4 columns, requested metadata for column: 4")
}

func TestRowGroupFinishIncomplete(t *testing.T) {
	t.Run("columns not claimed", func(t *testing.T) {
		schema := testSchema()
		rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

		for i := 0; i < 2; i++ {
			column, err := rowGroup.NextColumnChunk()
			require.NoError(t, err)
			column.Finish(10, 0, 0, 4, 10, 10, false)
		}

		err := rowGroup.Finish(20)
		assert.ErrorContains(t, err, "only 2 out of 4 columns are initialized")
	})

	t.Run("column not finished", func(t *testing.T) {
		schema := testSchema()
		rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

		for i := 0; i < schema.NumColumns(); i++ {
			column, err := rowGroup.NextColumnChunk()
			require.NoError(t, err)
			if i != schema.NumColumns()-1 {
				column.Finish(10, 0, 0, 4, 10, 10, false)
			}
		}

		err := rowGroup.Finish(30)
		assert.ErrorContains(t, err, "column 3 is not complete")
	})
}

func TestNextColumnChunkWhileInProgress(t *testing.T) {
	schema := testSchema()
	rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

	_, err := rowGroup.NextColumnChunk()
	require.NoError(t, err)

	// 前の列が Finish していない間は次の列を払い出せない
	_, err = rowGroup.NextColumnChunk()
	assert.ErrorContains(t, err, "column 0 is still in progress, cannot start column 1")
}

func TestRowGroupFinishSizeMismatch(t *testing.T) {
	schema := testSchema()
	rowGroup := NewFileMetaDataBuilder(schema, NewWriterProperties()).AppendRowGroup(10)

	for i := 0; i < schema.NumColumns(); i++ {
		column, err := rowGroup.NextColumnChunk()
		require.NoError(t, err)
		column.Finish(10, 0, 0, 4, 10, 10, false)
	}

	// 合計は 40 バイトなのに 39 を渡すと、書き込みパイプライン側の欠陥として扱われる
	err := rowGroup.Finish(39)
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestRowGroupTotalByteSize(t *testing.T) {
	metadata := buildTestFileMetaData(t, NewWriterProperties(), []int64{10, 20})

	for i := 0; i < metadata.NumRowGroups(); i++ {
		rowGroup, err := metadata.RowGroup(i)
		require.NoError(t, err)

		var sum int64
		for j := 0; j < rowGroup.NumColumns(); j++ {
			column, err := rowGroup.ColumnChunk(j)
			require.NoError(t, err)
			sum += column.TotalCompressedSize()
		}
		assert.Equal(t, rowGroup.TotalByteSize(), sum)
	}
}

func TestRowGroupSchemaIdentity(t *testing.T) {
	metadata := buildTestFileMetaData(t, NewWriterProperties(), []int64{10, 20, 30})

	for i := 0; i < metadata.NumRowGroups(); i++ {
		rowGroup, err := metadata.RowGroup(i)
		require.NoError(t, err)
		assert.Same(t, metadata.Schema(), rowGroup.Schema())
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	metadata := buildTestFileMetaData(t, NewWriterProperties(), []int64{10, 20})

	_, err := metadata.RowGroup(metadata.NumRowGroups() - 1)
	assert.NoError(t, err)

	_, err = metadata.RowGroup(metadata.NumRowGroups())
	assert.ErrorContains(t, err, "the file only has 2 row groups, requested metadata for row group: 2")

	rowGroup, err := metadata.RowGroup(0)
	require.NoError(t, err)

	_, err = rowGroup.ColumnChunk(rowGroup.NumColumns() - 1)
	assert.NoError(t, err)

	_, err = rowGroup.ColumnChunk(rowGroup.NumColumns())
	assert.ErrorContains(t, err, "the file only has 4 columns, requested metadata for column: 4")
}

func TestFileMetaDataRoundTrip(t *testing.T) {
	props := NewWriterProperties(WithVersion(ParquetV2), WithCreatedBy("roundtrip test"))
	built := buildTestFileMetaData(t, props, []int64{10, 20, 30})

	assert.Equal(t, int64(60), built.NumRows())
	assert.Equal(t, 3, built.NumRowGroups())
	assert.Equal(t, int32(2), built.Version())
	assert.Equal(t, "roundtrip test", built.CreatedBy())

	// シリアライズは冪等で、2回書いても同じバイト列になる
	var first, second bytes.Buffer
	require.NoError(t, built.WriteTo(&first))
	require.NoError(t, built.WriteTo(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())

	// 後ろにゴミが付いたバッファからでもデコードでき、消費バイト数が書き戻される
	data := append(first.Bytes(), make([]byte, 16)...)
	metadataLen := uint32(len(data))
	decoded, err := NewFileMetaData(data, &metadataLen)
	require.NoError(t, err)
	assert.Equal(t, uint32(first.Len()), metadataLen)

	assert.Equal(t, int64(60), decoded.NumRows())
	assert.Equal(t, 3, decoded.NumRowGroups())
	assert.Equal(t, "roundtrip test", decoded.CreatedBy())
	assert.Equal(t, built.NumSchemaElements(), decoded.NumSchemaElements())

	// スキーマは構造的に同一
	expected := testSchema()
	require.Equal(t, expected.NumColumns(), decoded.NumColumns())
	for i := 0; i < expected.NumColumns(); i++ {
		assert.Equal(t, expected.Column(i).DotPath(), decoded.Schema().Column(i).DotPath())
		assert.Equal(t, expected.Column(i).PhysicalType(), decoded.Schema().Column(i).PhysicalType())
	}

	// 行グループの中身も往復して保たれる
	rowGroup, err := decoded.RowGroup(1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), rowGroup.NumRows())
	assert.Equal(t, int64(400), rowGroup.TotalByteSize())

	column, err := rowGroup.ColumnChunk(1)
	require.NoError(t, err)
	assert.Equal(t, "name.first", column.PathInSchema())
	assert.Equal(t, format.ByteArray, column.Type())
	assert.Equal(t, int64(20), column.NumValues())
	assert.False(t, column.HasDictionaryPage())
}

func TestNewFileMetaDataLengthExceedsBuffer(t *testing.T) {
	metadataLen := uint32(128)
	_, err := NewFileMetaData(make([]byte, 16), &metadataLen)
	assert.ErrorContains(t, err, "metadata length 128 exceeds buffer length 16")
}
