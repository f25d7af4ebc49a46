package internal

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/encoding/thrift"
	"github.com/zarianw/parquet-cpp/format"
)

// 列チャンクの統計値
// min/max はエンコード済みのバイト列のままで、この層では型として解釈しない
type ColumnStatistics struct {
	NullCount     int64
	DistinctCount int64
	Min           []byte
	Max           []byte
}

// デコード済みフッターに対する読み取り専用ビューの一連の構造体
// いずれもデコード結果を参照するだけで、構築後に変更されることはない
type (
	ColumnChunkMetaData struct {
		column *format.ColumnChunk
	}

	RowGroupMetaData struct {
		rowGroup *format.RowGroup
		schema   *Schema
	}

	FileMetaData struct {
		metadata *format.FileMetaData
		schema   *Schema
	}
)

func newColumnChunkMetaData(column *format.ColumnChunk) *ColumnChunkMetaData {
	return &ColumnChunkMetaData{column: column}
}

// この列チャンクのデータ末尾のファイル内バイト位置
func (c *ColumnChunkMetaData) FileOffset() int64 {
	return c.column.FileOffset
}

// 列チャンクが別ファイルに分かれて格納されている場合のみ非空
func (c *ColumnChunkMetaData) FilePath() string {
	return c.column.FilePath
}

func (c *ColumnChunkMetaData) Type() format.Type {
	return c.column.MetaData.Type
}

func (c *ColumnChunkMetaData) NumValues() int64 {
	return c.column.MetaData.NumValues
}

// path_in_schema をドット区切りで結合した列パス
func (c *ColumnChunkMetaData) PathInSchema() string {
	return strings.Join(c.column.MetaData.PathInSchema, ".")
}

func (c *ColumnChunkMetaData) IsStatsSet() bool {
	return c.column.MetaData.Statistics != nil
}

// 統計値を返す。IsStatsSet が false の場合の内容は未定義なので先に確認すること
func (c *ColumnChunkMetaData) Statistics() ColumnStatistics {
	stats := c.column.MetaData.Statistics
	if stats == nil {
		return ColumnStatistics{}
	}
	return ColumnStatistics{
		NullCount:     stats.NullCount,
		DistinctCount: stats.DistinctCount,
		Min:           stats.Min,
		Max:           stats.Max,
	}
}

func (c *ColumnChunkMetaData) Compression() format.CompressionCodec {
	return c.column.MetaData.Codec
}

// この列チャンクで使われたエンコーディングの一覧(書き込み時の追加順)
func (c *ColumnChunkMetaData) Encodings() []format.Encoding {
	return c.column.MetaData.Encodings
}

func (c *ColumnChunkMetaData) HasDictionaryPage() bool {
	return c.column.MetaData.DictionaryPageOffset != nil
}

// 辞書ページのオフセット。辞書ページを持たない場合は 0
func (c *ColumnChunkMetaData) DictionaryPageOffset() int64 {
	if c.column.MetaData.DictionaryPageOffset == nil {
		return 0
	}
	return *c.column.MetaData.DictionaryPageOffset
}

func (c *ColumnChunkMetaData) DataPageOffset() int64 {
	return c.column.MetaData.DataPageOffset
}

func (c *ColumnChunkMetaData) HasIndexPage() bool {
	return c.column.MetaData.IndexPageOffset != nil
}

func (c *ColumnChunkMetaData) IndexPageOffset() int64 {
	if c.column.MetaData.IndexPageOffset == nil {
		return 0
	}
	return *c.column.MetaData.IndexPageOffset
}

func (c *ColumnChunkMetaData) TotalCompressedSize() int64 {
	return c.column.MetaData.TotalCompressedSize
}

func (c *ColumnChunkMetaData) TotalUncompressedSize() int64 {
	return c.column.MetaData.TotalUncompressedSize
}

func newRowGroupMetaData(rowGroup *format.RowGroup, schema *Schema) *RowGroupMetaData {
	return &RowGroupMetaData{rowGroup: rowGroup, schema: schema}
}

func (r *RowGroupMetaData) NumColumns() int {
	return len(r.rowGroup.Columns)
}

func (r *RowGroupMetaData) NumRows() int64 {
	return r.rowGroup.NumRows
}

// 全列チャンクの圧縮済みサイズの合計
func (r *RowGroupMetaData) TotalByteSize() int64 {
	return r.rowGroup.TotalByteSize
}

// スキーマはこの行グループを保持する FileMetaData と共有している
func (r *RowGroupMetaData) Schema() *Schema {
	return r.schema
}

// i 番目の列チャンクのビューを返す
func (r *RowGroupMetaData) ColumnChunk(i int) (*ColumnChunkMetaData, error) {
	if i < 0 || i >= r.NumColumns() {
		return nil, errors.Errorf(
			"the file only has %d columns, requested metadata for column: %d", r.NumColumns(), i)
	}
	return newColumnChunkMetaData(&r.rowGroup.Columns[i]), nil
}

// デコード済みのフッターからビューを構築し、フラットなスキーマからスキーマツリーを復元する
func newFileMetaData(metadata *format.FileMetaData) (*FileMetaData, error) {
	schema, err := SchemaFromElements(metadata.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert schema elements")
	}
	return &FileMetaData{metadata: metadata, schema: schema}, nil
}

// バイト列からフッターをデコードする
// metadataLen には利用可能なバイト数を渡し、復帰時には実際に消費したバイト数が書き戻される
func NewFileMetaData(data []byte, metadataLen *uint32) (*FileMetaData, error) {
	if int(*metadataLen) > len(data) {
		return nil, errors.Errorf(
			"metadata length %d exceeds buffer length %d", *metadataLen, len(data))
	}

	buf := bytes.NewReader(data[:*metadataLen])
	protocol := &thrift.CompactProtocol{}

	metadata := &format.FileMetaData{}
	if err := thrift.NewDecoder(protocol.NewReader(buf)).Decode(metadata); err != nil {
		return nil, errors.Wrap(err, "failed to decode file metadata")
	}
	*metadataLen -= uint32(buf.Len())

	return newFileMetaData(metadata)
}

func (f *FileMetaData) NumColumns() int {
	return f.schema.NumColumns()
}

func (f *FileMetaData) NumRows() int64 {
	return f.metadata.NumRows
}

func (f *FileMetaData) NumRowGroups() int {
	return len(f.metadata.RowGroups)
}

func (f *FileMetaData) Version() int32 {
	return f.metadata.Version
}

func (f *FileMetaData) CreatedBy() string {
	return f.metadata.CreatedBy
}

func (f *FileMetaData) NumSchemaElements() int {
	return len(f.metadata.Schema)
}

func (f *FileMetaData) Schema() *Schema {
	return f.schema
}

// i 番目の行グループのビューを返す。スキーマはこの FileMetaData と共有される
func (f *FileMetaData) RowGroup(i int) (*RowGroupMetaData, error) {
	if i < 0 || i >= f.NumRowGroups() {
		return nil, errors.Errorf(
			"the file only has %d row groups, requested metadata for row group: %d", f.NumRowGroups(), i)
	}
	return newRowGroupMetaData(&f.metadata.RowGroups[i], f.schema), nil
}

// フッターをコンパクトプロトコルでエンコードして書き出す
// このオブジェクト自体は変更しないため、何度呼んでも同じバイト列になる
func (f *FileMetaData) WriteTo(w io.Writer) error {
	protocol := &thrift.CompactProtocol{}
	if err := thrift.NewEncoder(protocol.NewWriter(w)).Encode(f.metadata); err != nil {
		return errors.Wrap(err, "failed to encode file metadata")
	}
	return nil
}
