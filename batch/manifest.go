package batch

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const manifestName = ".rembatch.json"

// Manifest 记录每个输出对应的输入内容哈希，
// 内容没变且输出还在就跳过重跑。只是缓存，丢了可以重建。
type Manifest struct {
	path    string
	Entries map[string]ManifestEntry `json:"entries"`
}

type ManifestEntry struct {
	Hash      string    `json:"hash"`
	Output    string    `json:"output"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoadManifest 从输出目录读取清单，不存在或损坏就从空开始
func LoadManifest(outputDir string) *Manifest {
	m := &Manifest{
		path:    filepath.Join(outputDir, manifestName),
		Entries: map[string]ManifestEntry{},
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, m); err != nil {
		m.Entries = map[string]ManifestEntry{}
	}
	return m
}

// Unchanged 输入内容没变、且记录的输出文件仍然存在
func (m *Manifest) Unchanged(name, hash string) bool {
	entry, ok := m.Entries[name]
	if !ok || entry.Hash != hash {
		return false
	}
	if _, err := os.Stat(entry.Output); err != nil {
		return false
	}
	return true
}

func (m *Manifest) Record(name, hash, output string) {
	m.Entries[name] = ManifestEntry{
		Hash:      hash,
		Output:    output,
		UpdatedAt: time.Now(),
	}
}

func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}

// HashBytes 输入内容哈希（md5 足够做变更检测）
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
