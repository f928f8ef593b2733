package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果（尺寸、偏移、测量值与旋转指令）输出为 JSON，便于核对摆放。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
