package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将结构报告输出为 JSON，便于调试或可视化。
func WriteDebugJSON(rep *Report, path string) error {
	if rep == nil {
		return nil
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("layout: 序列化报告失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("layout: 写入 %s 失败: %w", path, err)
	}
	return nil
}
