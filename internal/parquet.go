package internal

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// ファイル先頭と末尾に置かれるマジックナンバー
var parquetMagic = []byte("PAR1")

// フッター長(4バイト) + 末尾のマジックナンバー(4バイト)
const footerTailLen = 8

// Parquetファイルからフッターを読み取り、メタデータのビューを構築する
func ReadFileMetaData(r io.ReadSeeker) (*FileMetaData, error) {
	// 先頭のマジックナンバーを検証
	head := make([]byte, len(parquetMagic))
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to seek to head of file")
	}
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, errors.Wrap(err, "failed to read file magic")
	}
	if !bytes.Equal(head, parquetMagic) {
		return nil, errors.Errorf("invalid parquet file magic: %q", head)
	}

	// ファイル末尾から8バイト戻った位置にある、フッター長と末尾のマジックナンバーを取得する
	tail := make([]byte, footerTailLen)
	if _, err := r.Seek(-footerTailLen, io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to footer length")
	}
	if _, err := io.ReadFull(r, tail); err != nil {
		return nil, errors.Wrap(err, "failed to read footer length")
	}
	if !bytes.Equal(tail[4:], parquetMagic) {
		return nil, errors.Errorf("invalid parquet footer magic: %q", tail[4:])
	}
	footerLen := binary.LittleEndian.Uint32(tail[:4])

	// フッター、フッター長、マジックナンバー分だけ末尾から戻った、フッターの先頭にシークする
	if _, err := r.Seek(-int64(footerLen)-footerTailLen, io.SeekEnd); err != nil {
		return nil, errors.Wrapf(err, "failed to seek to footer(%d)", footerLen)
	}
	footer := make([]byte, footerLen)
	if _, err := io.ReadFull(r, footer); err != nil {
		return nil, errors.Wrap(err, "failed to read footer")
	}

	metadataLen := footerLen
	metadata, err := NewFileMetaData(footer, &metadataLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse footer")
	}
	return metadata, nil
}

// フッター本体、フッター長、マジックナンバーの順にファイル末尾の形で書き出す
// 書き込んだバイト数を返す
func WriteFileMetaData(metadata *FileMetaData, w io.Writer) (int64, error) {
	var footer bytes.Buffer
	if err := metadata.WriteTo(&footer); err != nil {
		return 0, err
	}

	footerLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(footerLen, uint32(footer.Len()))

	written, err := footer.WriteTo(w)
	if err != nil {
		return written, errors.Wrap(err, "failed to write footer")
	}
	for _, b := range [][]byte{footerLen, parquetMagic} {
		n, err := w.Write(b)
		written += int64(n)
		if err != nil {
			return written, errors.Wrap(err, "failed to write footer tail")
		}
	}

	return written, nil
}
