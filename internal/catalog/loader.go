package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// 内容文件名约定，与前端内容仓库保持一致
const (
	originsFile   = "origins.json"
	powersFile    = "powers.json"
	traitsFile    = "traits.json"
	npcsFile      = "npcs.json"
	districtsFile = "districts.json"
	eventsFile    = "events.json"
)

// Load 从内容目录加载全部内容表
// 缺失的文件按空表处理并记录告警，格式错误的文件返回错误
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	var (
		origins   []Origin
		powers    []Power
		traits    []Trait
		npcs      []NPC
		districts []District
		events    []Event
	)

	loads := []struct {
		file string
		dest interface{}
	}{
		{originsFile, &origins},
		{powersFile, &powers},
		{traitsFile, &traits},
		{npcsFile, &npcs},
		{districtsFile, &districts},
		{eventsFile, &events},
	}

	for _, l := range loads {
		path := filepath.Join(dir, l.file)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("内容文件缺失，按空表处理", zap.String("file", path))
				continue
			}
			return nil, fmt.Errorf("读取内容文件失败 %s: %w", path, err)
		}
		if err := json.Unmarshal(data, l.dest); err != nil {
			return nil, fmt.Errorf("解析内容文件失败 %s: %w", path, err)
		}
	}

	c := NewCatalog(origins, powers, traits, npcs, districts, events)
	logger.Info("内容目录加载完成",
		zap.Int("origins", len(origins)),
		zap.Int("powers", len(powers)),
		zap.Int("traits", len(traits)),
		zap.Int("npcs", len(npcs)),
		zap.Int("districts", len(districts)),
		zap.Int("events", len(events)))
	return c, nil
}
