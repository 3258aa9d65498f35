package vectorindex

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// VectorsFile は正規化済みベクトル行列のファイル名です。
	VectorsFile = "vectors.bin"
	// DocumentsFile は文書とメタデータのファイル名です。
	DocumentsFile = "documents.json"

	snapshotMagic   = "VIDX"
	snapshotVersion = uint32(1)
)

// ErrSnapshotNotFound はスナップショットが存在しない場合に返されます。
var ErrSnapshotNotFound = errors.New("vectorindex: snapshot not found")

type vectorsHeader struct {
	Magic   [4]byte
	Version uint32
	Dim     uint32
	Count   uint32
}

type documentsFile struct {
	Documents []string            `json:"documents"`
	Metadata  []map[string]string `json:"metadata"`
}

// Save は現在の内容を1組のスナップショットとして保存します。
// 保存中は追記がブロックされますが検索は並行して実行できます。
// 失敗はログに出したうえで返します。メモリ上の状態は変更しません。
func (ix *Index) Save() error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := ix.saveLocked(); err != nil {
		slog.Error("failed to save vector index", "dir", ix.dir, "error", err)
		return err
	}
	slog.Info("vector index saved", "dir", ix.dir, "documents", len(ix.docs))
	return nil
}

func (ix *Index) saveLocked() error {
	if err := os.MkdirAll(ix.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	hdr := vectorsHeader{
		Version: snapshotVersion,
		Dim:     uint32(ix.dim),
		Count:   uint32(len(ix.docs)),
	}
	copy(hdr.Magic[:], snapshotMagic)

	err := writeAtomic(filepath.Join(ix.dir, VectorsFile), func(w io.Writer) error {
		if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, ix.vectors)
	})
	if err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}

	err = writeAtomic(filepath.Join(ix.dir, DocumentsFile), func(w io.Writer) error {
		return json.NewEncoder(w).Encode(documentsFile{Documents: ix.docs, Metadata: ix.meta})
	})
	if err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}

// Load はスナップショットを読み込み、メモリ上の内容を置き換えます。
// 2つのファイルが揃って整合している場合のみ置き換え、失敗時は空の状態にします。
func (ix *Index) Load() error {
	vectors, hdr, err := readVectors(filepath.Join(ix.dir, VectorsFile), ix.dim)
	if err != nil {
		ix.reset()
		return err
	}
	docs, err := readDocuments(filepath.Join(ix.dir, DocumentsFile))
	if err != nil {
		ix.reset()
		return err
	}

	n := int(hdr.Count)
	if len(docs.Documents) != n || len(docs.Metadata) != n {
		ix.reset()
		return fmt.Errorf("vectorindex: inconsistent snapshot: %d vectors, %d documents, %d metadata",
			n, len(docs.Documents), len(docs.Metadata))
	}

	for i := range docs.Metadata {
		if docs.Metadata[i] == nil {
			docs.Metadata[i] = map[string]string{}
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = vectors
	ix.docs = docs.Documents
	ix.meta = docs.Metadata
	slog.Info("vector index loaded", "dir", ix.dir, "documents", n)
	return nil
}

func (ix *Index) reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors, ix.docs, ix.meta = nil, nil, nil
}

// readVectors はヘッダの次元とファイルサイズを検証してからベクトル領域を確保します。
func readVectors(path string, dim int) ([]float32, vectorsHeader, error) {
	var hdr vectorsHeader
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, hdr, ErrSnapshotNotFound
		}
		return nil, hdr, fmt.Errorf("open vectors: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, hdr, fmt.Errorf("read vectors header: %w", err)
	}
	if string(hdr.Magic[:]) != snapshotMagic || hdr.Version != snapshotVersion {
		return nil, hdr, fmt.Errorf("vectorindex: unsupported vectors file %q v%d", hdr.Magic[:], hdr.Version)
	}

	if int(hdr.Dim) != dim {
		return nil, hdr, fmt.Errorf("%w: snapshot has %d, index expects %d", ErrDimensionMismatch, hdr.Dim, dim)
	}
	st, err := f.Stat()
	if err != nil {
		return nil, hdr, fmt.Errorf("stat vectors: %w", err)
	}
	want := uint64(binary.Size(hdr)) + uint64(hdr.Count)*uint64(hdr.Dim)*4
	if st.Size() < 0 || uint64(st.Size()) != want {
		return nil, hdr, fmt.Errorf("vectorindex: vectors file is %d bytes, header implies %d", st.Size(), want)
	}

	vectors := make([]float32, int(hdr.Dim)*int(hdr.Count))
	if err := binary.Read(r, binary.LittleEndian, vectors); err != nil {
		return nil, hdr, fmt.Errorf("read vectors: %w", err)
	}
	return vectors, hdr, nil
}

func readDocuments(path string) (documentsFile, error) {
	var out documentsFile
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, ErrSnapshotNotFound
		}
		return out, fmt.Errorf("read documents: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("parse documents: %w", err)
	}
	return out, nil
}

// writeAtomic は一時ファイルへ書き込んだ後に rename で置き換えます。
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = write(w); err != nil {
		tmp.Close()
		return err
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
