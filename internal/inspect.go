package internal

// inspect コマンドで出力する、Parquetファイルの構造を表すための一連の構造体
// 列挙値は JSON 上では読みやすいように文字列表現にする
type (
	Structure struct {
		Version    int32           `json:"version"`
		CreatedBy  string          `json:"created_by,omitempty"`
		TotalRows  int64           `json:"total_rows"`
		SchemaTree *SchemaInfo     `json:"schema_tree"`
		RowGroups  []*RowGroupInfo `json:"row_groups"`
	}

	SchemaInfo struct {
		Name           string        `json:"name"`
		Type           string        `json:"type,omitempty"`
		RepetitionType string        `json:"repetition_type,omitempty"`
		Children       []*SchemaInfo `json:"children,omitempty"`
	}

	RowGroupInfo struct {
		NumRows       int64              `json:"num_rows"`
		TotalByteSize int64              `json:"total_byte_size"`
		Columns       []*ColumnChunkInfo `json:"columns"`
	}

	ColumnChunkInfo struct {
		Path                  string   `json:"path"`
		Type                  string   `json:"type"`
		Codec                 string   `json:"codec"`
		Encodings             []string `json:"encodings"`
		NumValues             int64    `json:"num_values"`
		TotalUncompressedSize int64    `json:"total_uncompressed_size"`
		TotalCompressedSize   int64    `json:"total_compressed_size"`
		DataPageOffset        int64    `json:"data_page_offset"`
		DictPageOffset        *int64   `json:"dict_page_offset,omitempty"`
		FileOffset            int64    `json:"file_offset"`
	}
)

// メタデータのビューを走査して構造のサマリーへ変換する
func Inspect(metadata *FileMetaData) (*Structure, error) {
	structure := &Structure{
		Version:    metadata.Version(),
		CreatedBy:  metadata.CreatedBy(),
		TotalRows:  metadata.NumRows(),
		SchemaTree: inspectNode(metadata.Schema().Root()),
		RowGroups:  make([]*RowGroupInfo, metadata.NumRowGroups()),
	}

	// 行グループ毎に変換
	for i := 0; i < metadata.NumRowGroups(); i++ {
		rowGroup, err := metadata.RowGroup(i)
		if err != nil {
			return nil, err
		}

		info := &RowGroupInfo{
			NumRows:       rowGroup.NumRows(),
			TotalByteSize: rowGroup.TotalByteSize(),
			Columns:       make([]*ColumnChunkInfo, rowGroup.NumColumns()),
		}

		// 列チャンク毎に変換
		for j := 0; j < rowGroup.NumColumns(); j++ {
			column, err := rowGroup.ColumnChunk(j)
			if err != nil {
				return nil, err
			}
			info.Columns[j] = inspectColumnChunk(column)
		}

		structure.RowGroups[i] = info
	}

	return structure, nil
}

func inspectNode(node *Node) *SchemaInfo {
	info := &SchemaInfo{Name: node.Name}
	if node.Type != nil {
		info.Type = node.Type.String()
	}
	if node.RepetitionType != nil {
		info.RepetitionType = node.RepetitionType.String()
	}

	for _, child := range node.Children {
		info.Children = append(info.Children, inspectNode(child))
	}
	return info
}

func inspectColumnChunk(column *ColumnChunkMetaData) *ColumnChunkInfo {
	info := &ColumnChunkInfo{
		Path:                  column.PathInSchema(),
		Type:                  column.Type().String(),
		Codec:                 column.Compression().String(),
		NumValues:             column.NumValues(),
		TotalUncompressedSize: column.TotalUncompressedSize(),
		TotalCompressedSize:   column.TotalCompressedSize(),
		DataPageOffset:        column.DataPageOffset(),
		FileOffset:            column.FileOffset(),
	}
	for _, encoding := range column.Encodings() {
		info.Encodings = append(info.Encodings, encoding.String())
	}
	if column.HasDictionaryPage() {
		offset := column.DictionaryPageOffset()
		info.DictPageOffset = &offset
	}
	return info
}

// 列の名前を指定して、全行グループから該当する列チャンクのサマリーを取得
func (s *Structure) FindColumnChunks(path string) []*ColumnChunkInfo {
	columns := make([]*ColumnChunkInfo, 0)

	for _, rowGroup := range s.RowGroups {
		for _, column := range rowGroup.Columns {
			if column.Path == path {
				columns = append(columns, column)
			}
		}
	}

	return columns
}
