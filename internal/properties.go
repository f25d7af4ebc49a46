package internal

import "github.com/zarianw/parquet-cpp/format"

// フッターに書かれるフォーマットバージョン
type ParquetVersion int32

const (
	ParquetV1 ParquetVersion = 1
	ParquetV2 ParquetVersion = 2
)

// created_by として書き込む既定の文字列
const DefaultCreatedBy = "parquet-cpp version 0.1.0"

// 書き込み時の設定。列ごとの設定はドット区切りパスをキーに持ち、無ければ既定値に落ちる
type (
	columnProperties struct {
		codec      *format.CompressionCodec
		encoding   *format.Encoding
		dictionary *bool
	}

	WriterProperties struct {
		version           ParquetVersion
		createdBy         string
		defaultCodec      format.CompressionCodec
		defaultEncoding   format.Encoding
		defaultDictionary bool
		columns           map[string]*columnProperties
	}

	WriterOption func(*WriterProperties)
)

func NewWriterProperties(opts ...WriterOption) *WriterProperties {
	props := &WriterProperties{
		version:           ParquetV1,
		createdBy:         DefaultCreatedBy,
		defaultCodec:      format.Uncompressed,
		defaultEncoding:   format.Plain,
		defaultDictionary: true,
		columns:           make(map[string]*columnProperties),
	}
	for _, opt := range opts {
		opt(props)
	}
	return props
}

func (p *WriterProperties) column(path string) *columnProperties {
	col, ok := p.columns[path]
	if !ok {
		col = &columnProperties{}
		p.columns[path] = col
	}
	return col
}

func WithVersion(version ParquetVersion) WriterOption {
	return func(p *WriterProperties) { p.version = version }
}

func WithCreatedBy(createdBy string) WriterOption {
	return func(p *WriterProperties) { p.createdBy = createdBy }
}

func WithCompression(codec format.CompressionCodec) WriterOption {
	return func(p *WriterProperties) { p.defaultCodec = codec }
}

func WithCompressionFor(path string, codec format.CompressionCodec) WriterOption {
	return func(p *WriterProperties) { p.column(path).codec = &codec }
}

func WithEncoding(encoding format.Encoding) WriterOption {
	return func(p *WriterProperties) { p.defaultEncoding = encoding }
}

func WithEncodingFor(path string, encoding format.Encoding) WriterOption {
	return func(p *WriterProperties) { p.column(path).encoding = &encoding }
}

func WithDictionary(enabled bool) WriterOption {
	return func(p *WriterProperties) { p.defaultDictionary = enabled }
}

func WithDictionaryFor(path string, enabled bool) WriterOption {
	return func(p *WriterProperties) { p.column(path).dictionary = &enabled }
}

func (p *WriterProperties) Version() ParquetVersion {
	return p.version
}

func (p *WriterProperties) CreatedBy() string {
	return p.createdBy
}

func (p *WriterProperties) Compression(path string) format.CompressionCodec {
	if col, ok := p.columns[path]; ok && col.codec != nil {
		return *col.codec
	}
	return p.defaultCodec
}

// 辞書エンコードから落ちた場合等にデータページへ使うエンコーディング
func (p *WriterProperties) Encoding(path string) format.Encoding {
	if col, ok := p.columns[path]; ok && col.encoding != nil {
		return *col.encoding
	}
	return p.defaultEncoding
}

func (p *WriterProperties) DictionaryEnabled(path string) bool {
	if col, ok := p.columns[path]; ok && col.dictionary != nil {
		return *col.dictionary
	}
	return p.defaultDictionary
}

// 辞書ページ自体のエンコーディング。V2 では辞書ページは PLAIN で書かれる
func (p *WriterProperties) DictionaryPageEncoding() format.Encoding {
	if p.version == ParquetV2 {
		return format.Plain
	}
	return format.PlainDictionary
}

// データページから辞書を参照するインデックスのエンコーディング
// V2 でのみ列チャンクのエンコーディング一覧に個別に現れる
func (p *WriterProperties) DictionaryIndexEncoding() format.Encoding {
	if p.version == ParquetV2 {
		return format.RLEDictionary
	}
	return format.PlainDictionary
}
