package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarianw/parquet-cpp/format"
)

// 先頭のマジックナンバーとフッターだけを持つ最小のParquetファイルを組み立てる
func writeTestFile(t *testing.T, metadata *FileMetaData) []byte {
	t.Helper()

	var file bytes.Buffer
	_, err := file.Write(parquetMagic)
	require.NoError(t, err)

	written, err := WriteFileMetaData(metadata, &file)
	require.NoError(t, err)
	assert.Equal(t, int64(file.Len()-len(parquetMagic)), written)

	return file.Bytes()
}

func TestWriteReadFileMetaData(t *testing.T) {
	built := buildTestFileMetaData(t, NewWriterProperties(WithVersion(ParquetV2)), []int64{5, 7})
	data := writeTestFile(t, built)

	decoded, err := ReadFileMetaData(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, int64(12), decoded.NumRows())
	assert.Equal(t, 2, decoded.NumRowGroups())
	assert.Equal(t, built.NumColumns(), decoded.NumColumns())
	assert.Equal(t, built.CreatedBy(), decoded.CreatedBy())
}

func TestReadFileMetaDataInvalidFile(t *testing.T) {
	built := buildTestFileMetaData(t, NewWriterProperties(), []int64{5})
	data := writeTestFile(t, built)

	t.Run("corrupt head magic", func(t *testing.T) {
		corrupt := append([]byte(nil), data...)
		corrupt[0] = 'X'
		_, err := ReadFileMetaData(bytes.NewReader(corrupt))
		assert.ErrorContains(t, err, "invalid parquet file magic")
	})

	t.Run("corrupt footer magic", func(t *testing.T) {
		corrupt := append([]byte(nil), data...)
		corrupt[len(corrupt)-1] = 'X'
		_, err := ReadFileMetaData(bytes.NewReader(corrupt))
		assert.ErrorContains(t, err, "invalid parquet footer magic")
	})

	t.Run("truncated file", func(t *testing.T) {
		_, err := ReadFileMetaData(bytes.NewReader(data[:6]))
		assert.Error(t, err)
	})
}

func TestInspect(t *testing.T) {
	schema := testSchema()
	props := NewWriterProperties(WithVersion(ParquetV2), WithCompression(format.Snappy))
	builder := NewFileMetaDataBuilder(schema, props)

	offset := int64(4)
	for _, numRows := range []int64{10, 20} {
		rowGroup := builder.AppendRowGroup(numRows)

		var totalBytes int64
		for i := 0; i < schema.NumColumns(); i++ {
			column, err := rowGroup.NextColumnChunk()
			require.NoError(t, err)

			// 先頭列だけ辞書ページ付きにする
			if i == 0 {
				column.Finish(numRows, offset, 0, offset+20, 100, 150, false)
			} else {
				column.Finish(numRows, 0, 0, offset, 100, 150, false)
			}
			offset += 100
			totalBytes += 100
		}
		require.NoError(t, rowGroup.Finish(totalBytes))
	}

	metadata, err := builder.Finish()
	require.NoError(t, err)

	structure, err := Inspect(metadata)
	require.NoError(t, err)

	assert.Equal(t, int32(2), structure.Version)
	assert.Equal(t, int64(30), structure.TotalRows)
	assert.Equal(t, "schema", structure.SchemaTree.Name)
	require.Len(t, structure.SchemaTree.Children, 3)
	assert.Equal(t, "INT64", structure.SchemaTree.Children[0].Type)
	assert.Equal(t, "OPTIONAL", structure.SchemaTree.Children[1].RepetitionType)

	require.Len(t, structure.RowGroups, 2)
	first := structure.RowGroups[0].Columns[0]
	assert.Equal(t, "id", first.Path)
	assert.Equal(t, "SNAPPY", first.Codec)
	assert.Equal(t, []string{"RLE", "PLAIN", "RLE_DICTIONARY"}, first.Encodings)
	require.NotNil(t, first.DictPageOffset)
	assert.Equal(t, int64(4), *first.DictPageOffset)
	assert.Nil(t, structure.RowGroups[0].Columns[1].DictPageOffset)

	assert.Len(t, structure.FindColumnChunks("name.first"), 2)
	assert.Empty(t, structure.FindColumnChunks("name.middle"))
}
