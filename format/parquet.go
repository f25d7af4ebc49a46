// Package format contains the Thrift representation of the parquet footer,
// derived from parquet.thrift and trimmed to the structures the file metadata
// layer reads and writes. Values are serialized with the Thrift compact
// protocol through the struct tags.
package format

// Types supported by Parquet. These types are intended to be used in
// combination with the encodings to control the on disk storage format.
// For example INT16 is not included as a type since a good encoding of INT32
// would handle this.
type Type int32

const (
	Boolean           Type = 0
	Int32             Type = 1
	Int64             Type = 2
	Int96             Type = 3 // deprecated, only used by legacy implementations.
	Float             Type = 4
	Double            Type = 5
	ByteArray         Type = 6
	FixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "Type(?)"
	}
}

// Representation of schema element repetition.
type FieldRepetitionType int32

const (
	// The field is required (can not be null) and each record has exactly 1 value.
	Required FieldRepetitionType = 0
	// The field is optional (can be null) and each record has 0 or 1 values.
	Optional FieldRepetitionType = 1
	// The field is repeated and can contain 0 or more values.
	Repeated FieldRepetitionType = 2
)

func (t FieldRepetitionType) String() string {
	switch t {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "FieldRepetitionType(?)"
	}
}

// DEPRECATED in the parquet format in favor of logical type annotations, but
// still written for forward compatibility and still the only type hint many
// readers understand.
type ConvertedType int32

const (
	UTF8            ConvertedType = 0
	Map             ConvertedType = 1
	MapKeyValue     ConvertedType = 2
	List            ConvertedType = 3
	Enum            ConvertedType = 4
	Decimal         ConvertedType = 5
	Date            ConvertedType = 6
	TimeMillis      ConvertedType = 7
	TimeMicros      ConvertedType = 8
	TimestampMillis ConvertedType = 9
	TimestampMicros ConvertedType = 10
	Uint8           ConvertedType = 11
	Uint16          ConvertedType = 12
	Uint32          ConvertedType = 13
	Uint64          ConvertedType = 14
	Int8            ConvertedType = 15
	Int16           ConvertedType = 16
	IntType32       ConvertedType = 17
	IntType64       ConvertedType = 18
	Json            ConvertedType = 19
	Bson            ConvertedType = 20
	Interval        ConvertedType = 21
)

func (c ConvertedType) String() string {
	switch c {
	case UTF8:
		return "UTF8"
	case Map:
		return "MAP"
	case MapKeyValue:
		return "MAP_KEY_VALUE"
	case List:
		return "LIST"
	case Enum:
		return "ENUM"
	case Decimal:
		return "DECIMAL"
	case Date:
		return "DATE"
	case TimeMillis:
		return "TIME_MILLIS"
	case TimeMicros:
		return "TIME_MICROS"
	case TimestampMillis:
		return "TIMESTAMP_MILLIS"
	case TimestampMicros:
		return "TIMESTAMP_MICROS"
	case Uint8:
		return "UINT_8"
	case Uint16:
		return "UINT_16"
	case Uint32:
		return "UINT_32"
	case Uint64:
		return "UINT_64"
	case Int8:
		return "INT_8"
	case Int16:
		return "INT_16"
	case IntType32:
		return "INT_32"
	case IntType64:
		return "INT_64"
	case Json:
		return "JSON"
	case Bson:
		return "BSON"
	case Interval:
		return "INTERVAL"
	default:
		return "ConvertedType(?)"
	}
}

// Encodings supported by Parquet. Not all encodings are valid for all types.
// These enums are also used to specify the encoding of definition and
// repetition levels.
type Encoding int32

const (
	// Default encoding: values stored back to back in their plain byte
	// representation.
	Plain Encoding = 0

	// Deprecated dictionary encoding. The values in the dictionary are encoded
	// in the plain type. In a data page use RLEDictionary instead. In a
	// dictionary page use Plain instead.
	PlainDictionary Encoding = 2

	// Group packed run length encoding. Usable for definition/repetition
	// levels encoding and Booleans.
	RLE Encoding = 3

	// Bit packed encoding. This can only be used if the data has a known max
	// width. Usable for definition/repetition levels encoding.
	BitPacked Encoding = 4

	// Delta encoding for integers. Works best on sorted data.
	DeltaBinaryPacked Encoding = 5

	// Encoding for byte arrays to separate the length values and the data.
	DeltaLengthByteArray Encoding = 6

	// Incremental-encoded byte array.
	DeltaByteArray Encoding = 7

	// Dictionary encoding: the ids are encoded using the RLE encoding.
	RLEDictionary Encoding = 8

	// Encoding for floating-point data.
	ByteStreamSplit Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "Encoding(?)"
	}
}

// Supported compression algorithms.
//
// Codecs added in format version X.Y can be read by readers based on X.Y and
// later. Codec support may vary between readers based on the format version
// and libraries available at runtime.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	LZO          CompressionCodec = 3
	Brotli       CompressionCodec = 4 // Added in 2.4
	Lz4          CompressionCodec = 5 // DEPRECATED (Added in 2.4)
	Zstd         CompressionCodec = 6 // Added in 2.4
	Lz4Raw       CompressionCodec = 7 // Added in 2.9
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZO:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "CompressionCodec(?)"
	}
}

// Statistics per row group and per page. All fields are optional.
type Statistics struct {
	// DEPRECATED: min and max value of the column determined by signed
	// comparison. Values are encoded using PLAIN encoding, except that
	// variable-length byte arrays do not include a length prefix.
	Max []byte `thrift:"1,optional"`
	Min []byte `thrift:"2,optional"`
	// Count of null values in the column.
	NullCount int64 `thrift:"3,optional"`
	// Count of distinct values occurring.
	DistinctCount int64 `thrift:"4,optional"`
	// Min and max values for the column, determined by its ColumnOrder.
	MaxValue []byte `thrift:"5,optional"`
	MinValue []byte `thrift:"6,optional"`
}

// Wrapper struct to store key values.
type KeyValue struct {
	Key   string `thrift:"1,required"`
	Value string `thrift:"2,optional"`
}

// Represents an element inside a schema definition.
//
//   - if it is a group (inner node) then type is undefined and num_children
//     is defined
//   - if it is a primitive type (leaf) then type is defined and num_children
//     is undefined
//
// The nodes are listed in depth first traversal order.
type SchemaElement struct {
	// Data type for this field. Not set if the current element is a non-leaf node.
	Type *Type `thrift:"1,optional"`

	// If type is FixedLenByteArray, this is the byte length of the values.
	TypeLength *int32 `thrift:"2,optional"`

	// Repetition of the field. The root of the schema does not have a
	// repetition_type. All other nodes must have one.
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`

	// Name of the field in the schema.
	Name string `thrift:"4,required"`

	// Nested fields. Since thrift does not support nested fields, the nesting
	// is flattened to a single list by a depth-first traversal. The children
	// count is used to construct the nested relationship. This field is not
	// set when the element is a primitive type.
	NumChildren *int32 `thrift:"5,optional"`

	// DEPRECATED: when the schema is the result of a conversion from another
	// model, records the original type to help with cross conversion.
	ConvertedType *ConvertedType `thrift:"6,optional"`

	// DEPRECATED: used when this column contains decimal data.
	Scale     *int32 `thrift:"7,optional"`
	Precision *int32 `thrift:"8,optional"`

	// When the original schema supports field ids, this will save the
	// original field id in the parquet schema.
	FieldID *int32 `thrift:"9,optional"`
}

// Wrapper struct to specify sort order.
type SortingColumn struct {
	// The column index (in this row group).
	ColumnIdx int32 `thrift:"1,required"`

	// If true, indicates this column is sorted in descending order.
	Descending bool `thrift:"2,required"`

	// If true, nulls will come before non-null values, otherwise nulls go at
	// the end.
	NullsFirst bool `thrift:"3,required"`
}

// Description for column metadata.
type ColumnMetaData struct {
	// Type of this column.
	Type Type `thrift:"1,required"`

	// Set of all encodings used for this column. The purpose is to validate
	// whether we can decode those pages.
	Encodings []Encoding `thrift:"2,required"`

	// Path in schema.
	PathInSchema []string `thrift:"3,required"`

	// Compression codec.
	Codec CompressionCodec `thrift:"4,required"`

	// Number of values in this column.
	NumValues int64 `thrift:"5,required"`

	// Total byte size of all uncompressed pages in this column chunk
	// (including the headers).
	TotalUncompressedSize int64 `thrift:"6,required"`

	// Total byte size of all compressed pages in this column chunk
	// (including the headers).
	TotalCompressedSize int64 `thrift:"7,required"`

	// Optional key/value metadata.
	KeyValueMetadata []KeyValue `thrift:"8,optional"`

	// Byte offset from beginning of file to first data page.
	DataPageOffset int64 `thrift:"9,required"`

	// Byte offset from beginning of file to root index page.
	IndexPageOffset *int64 `thrift:"10,optional"`

	// Byte offset from the beginning of file to first (only) dictionary page.
	DictionaryPageOffset *int64 `thrift:"11,optional"`

	// Optional statistics for this column chunk.
	Statistics *Statistics `thrift:"12,optional"`
}

type ColumnChunk struct {
	// File where column data is stored. If not set, assumed to be the same
	// file as the metadata. This path is relative to the current file.
	FilePath string `thrift:"1,optional"`

	// Byte offset in file_path to the ColumnMetaData.
	FileOffset int64 `thrift:"2,required"`

	// Column metadata for this chunk. This is the same content as what is at
	// file_path/file_offset. Having it here has it replicated in the file
	// metadata.
	MetaData *ColumnMetaData `thrift:"3,optional"`
}

type RowGroup struct {
	// Metadata for each column chunk in this row group. This list must have
	// the same order as the SchemaElement list in FileMetaData.
	Columns []ColumnChunk `thrift:"1,required"`

	// Total byte size of all the uncompressed column data in this row group.
	TotalByteSize int64 `thrift:"2,required"`

	// Number of rows in this row group.
	NumRows int64 `thrift:"3,required"`

	// If set, specifies a sort ordering of the rows in this row group. The
	// sorting columns can be a subset of all the columns.
	SortingColumns []SortingColumn `thrift:"4,optional"`
}

// Description for file metadata.
type FileMetaData struct {
	// Version of this file.
	Version int32 `thrift:"1,required"`

	// Parquet schema for this file. This schema contains metadata for all the
	// columns. The schema is represented as a tree with a single root. The
	// nodes of the tree are flattened to a list by doing a depth-first
	// traversal. The column metadata contains the path in the schema for that
	// column which can be used to map columns to nodes in the schema. The
	// first element is the root.
	Schema []SchemaElement `thrift:"2,required"`

	// Number of rows in this file.
	NumRows int64 `thrift:"3,required"`

	// Row groups in this file.
	RowGroups []RowGroup `thrift:"4,required"`

	// Optional key/value metadata.
	KeyValueMetadata []KeyValue `thrift:"5,optional"`

	// String for application that wrote this file. This should be in the
	// format <Application> version <App Version> (build <App Build Hash>).
	CreatedBy string `thrift:"6,optional"`
}
