package internal

import (
	"github.com/cockroachdb/errors"
	"github.com/zarianw/parquet-cpp/format"
)

// フッターを書き込み側で組み立てていくためのビルダー群
// いずれも使い捨てで、Finish 後の再利用はできない。並行利用も想定しない
type (
	// 1つの列チャンクのメタデータを埋めるビルダー
	// 親の行グループが確保したスロットへの参照を介して書き込む
	ColumnChunkMetaDataBuilder struct {
		props  *WriterProperties
		column *ColumnDescriptor
		chunk  *format.ColumnChunk
	}

	// 1つの行グループのメタデータを組み立てるビルダー
	// 列スロットは構築時にスキーマの列数分だけ確保され、列はスキーマ順に1つずつ払い出される
	RowGroupMetaDataBuilder struct {
		props         *WriterProperties
		schema        *Schema
		rowGroup      *format.RowGroup
		colBuilders   []*ColumnChunkMetaDataBuilder
		currentColumn int
	}

	// ファイル全体のフッターを組み立てるビルダー
	FileMetaDataBuilder struct {
		props            *WriterProperties
		schema           *Schema
		metadata         *format.FileMetaData
		rowGroups        []*format.RowGroup
		rowGroupBuilders []*RowGroupMetaDataBuilder
	}
)

// 列の型・パス・圧縮コーデックは構築時に確定し、以後変わらない
func newColumnChunkMetaDataBuilder(
	props *WriterProperties, column *ColumnDescriptor, chunk *format.ColumnChunk,
) *ColumnChunkMetaDataBuilder {
	chunk.MetaData = &format.ColumnMetaData{
		Type:         column.PhysicalType(),
		PathInSchema: column.Path(),
		Codec:        props.Compression(column.DotPath()),
	}
	return &ColumnChunkMetaDataBuilder{props: props, column: column, chunk: chunk}
}

func (b *ColumnChunkMetaDataBuilder) Descriptor() *ColumnDescriptor {
	return b.column
}

// 列チャンクを別ファイルへ書き出した場合のみ呼ぶ
func (b *ColumnChunkMetaDataBuilder) SetFilePath(path string) {
	b.chunk.FilePath = path
}

// 統計値をスロットへコピーする。Finish より前に高々1回
func (b *ColumnChunkMetaDataBuilder) SetStatistics(stats ColumnStatistics) {
	b.chunk.MetaData.Statistics = &format.Statistics{
		NullCount:     stats.NullCount,
		DistinctCount: stats.DistinctCount,
		Min:           append([]byte(nil), stats.Min...),
		Max:           append([]byte(nil), stats.Max...),
	}
}

// Finish 後にのみ意味を持つ
func (b *ColumnChunkMetaDataBuilder) FileOffset() int64 {
	return b.chunk.FileOffset
}

// ページライターが書き終えた値を確定させる。これが唯一の完了遷移で、エラーは返さない
// file_offset はチャンク先頭のページ種別を起点に、データ末尾のバイト位置として計算される
func (b *ColumnChunkMetaDataBuilder) Finish(
	numValues int64,
	dictionaryPageOffset, indexPageOffset, dataPageOffset int64,
	compressedSize, uncompressedSize int64,
	dictionaryFallback bool,
) {
	metaData := b.chunk.MetaData

	if dictionaryPageOffset > 0 {
		b.chunk.FileOffset = dictionaryPageOffset + compressedSize
		metaData.DictionaryPageOffset = &dictionaryPageOffset
	} else {
		b.chunk.FileOffset = dataPageOffset + compressedSize
	}
	if indexPageOffset > 0 {
		metaData.IndexPageOffset = &indexPageOffset
	}

	metaData.NumValues = numValues
	metaData.DataPageOffset = dataPageOffset
	metaData.TotalUncompressedSize = uncompressedSize
	metaData.TotalCompressedSize = compressedSize

	// エンコーディング一覧の構築
	// 定義/反復レベル用の RLE は常に含める。辞書エンコードが有効なら辞書ページの
	// エンコーディングを加え、V2 ではさらに辞書インデックスのエンコーディングを別途加える。
	// 辞書が無効な列と、辞書からプレーンへフォールバックしたチャンクは、設定された
	// データエンコーディングを加える
	dotPath := b.column.DotPath()
	encodings := []format.Encoding{format.RLE}

	if b.props.DictionaryEnabled(dotPath) {
		encodings = append(encodings, b.props.DictionaryPageEncoding())
		if b.props.Version() == ParquetV2 {
			encodings = append(encodings, b.props.DictionaryIndexEncoding())
		}
	}
	if !b.props.DictionaryEnabled(dotPath) || dictionaryFallback {
		encodings = append(encodings, b.props.Encoding(dotPath))
	}

	metaData.Encodings = encodings
}

func newRowGroupMetaDataBuilder(
	numRows int64, props *WriterProperties, schema *Schema, rowGroup *format.RowGroup,
) *RowGroupMetaDataBuilder {
	rowGroup.NumRows = numRows
	rowGroup.Columns = make([]format.ColumnChunk, schema.NumColumns())
	return &RowGroupMetaDataBuilder{props: props, schema: schema, rowGroup: rowGroup}
}

func (r *RowGroupMetaDataBuilder) NumColumns() int {
	return len(r.rowGroup.Columns)
}

func (r *RowGroupMetaDataBuilder) NumRows() int64 {
	return r.rowGroup.NumRows
}

// 次の未割り当て列に束縛された列チャンクビルダーを返す
// 列はスキーマ順にしか払い出せず、列数を使い切った後の呼び出しはエラー
// 同時に使える列ビルダーは1つだけで、前の列が Finish するまで次の列は払い出せない
func (r *RowGroupMetaDataBuilder) NextColumnChunk() (*ColumnChunkMetaDataBuilder, error) {
	if r.currentColumn >= r.NumColumns() {
		return nil, errors.Errorf(
			"the schema only has %d columns, requested metadata for column: %d",
			r.NumColumns(), r.currentColumn)
	}
	if r.currentColumn > 0 && r.rowGroup.Columns[r.currentColumn-1].FileOffset <= 0 {
		return nil, errors.Errorf(
			"column %d is still in progress, cannot start column %d",
			r.currentColumn-1, r.currentColumn)
	}

	column := r.schema.Column(r.currentColumn)
	builder := newColumnChunkMetaDataBuilder(r.props, column, &r.rowGroup.Columns[r.currentColumn])
	r.currentColumn++
	r.colBuilders = append(r.colBuilders, builder)
	return builder, nil
}

// 行グループを確定させる
// 全列が払い出し済みで、かつ各列のビルダーが Finish 済み (file_offset > 0) であること
// 全列の圧縮済みサイズの合計が呼び出し側の書き込んだバイト数と一致しない場合、
// それはこの層ではなく書き込みパイプライン側の欠陥なので、アサーション失敗として返す
func (r *RowGroupMetaDataBuilder) Finish(totalBytesWritten int64) error {
	if r.currentColumn != r.schema.NumColumns() {
		return errors.Errorf(
			"only %d out of %d columns are initialized", r.currentColumn, r.schema.NumColumns())
	}

	var totalByteSize int64
	for i := range r.rowGroup.Columns {
		if r.rowGroup.Columns[i].FileOffset <= 0 {
			return errors.Errorf("column %d is not complete", i)
		}
		totalByteSize += r.rowGroup.Columns[i].MetaData.TotalCompressedSize
	}

	if totalBytesWritten != totalByteSize {
		return errors.AssertionFailedf(
			"total bytes written (%d) does not match the compressed sizes of columns (%d)",
			totalBytesWritten, totalByteSize)
	}

	r.rowGroup.TotalByteSize = totalByteSize
	return nil
}

func NewFileMetaDataBuilder(schema *Schema, props *WriterProperties) *FileMetaDataBuilder {
	return &FileMetaDataBuilder{
		props:    props,
		schema:   schema,
		metadata: &format.FileMetaData{},
	}
}

// 新しい行グループのスロットを確保し、それに束縛されたビルダーを返す
// スロットとビルダーの所有権はこのビルダーが持ち続ける
func (f *FileMetaDataBuilder) AppendRowGroup(numRows int64) *RowGroupMetaDataBuilder {
	rowGroup := &format.RowGroup{}
	builder := newRowGroupMetaDataBuilder(numRows, f.props, f.schema, rowGroup)
	f.rowGroups = append(f.rowGroups, rowGroup)
	f.rowGroupBuilders = append(f.rowGroupBuilders, builder)
	return builder
}

// フッター全体を確定させ、読み取り専用の FileMetaData を生成する。以後このビルダーは使えない
// 返り値のスキーマはフラット化した要素列から復元し直したもので、
// シリアライズ結果を後から読んだ場合と同一のビューになることを保証する
func (f *FileMetaDataBuilder) Finish() (*FileMetaData, error) {
	var totalRows int64
	rowGroups := make([]format.RowGroup, 0, len(f.rowGroups))
	for _, rowGroup := range f.rowGroups {
		rowGroups = append(rowGroups, *rowGroup)
		totalRows += rowGroup.NumRows
	}

	f.metadata.NumRows = totalRows
	f.metadata.RowGroups = rowGroups
	f.metadata.Version = int32(f.props.Version())
	f.metadata.CreatedBy = f.props.CreatedBy()
	f.metadata.Schema = f.schema.Flatten()

	return newFileMetaData(f.metadata)
}
