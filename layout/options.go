package layout

import (
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

// BuildOptions 配置排版阶段所需的依赖，例如测量后端。
type BuildOptions struct {
	Shaper  linewrap.Shaper
	Measure linewrap.Options
	Origin  model.Point // 文档根在宿主坐标系中的位置
	Debug   DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Blocks bool // 在调试 JSON 中输出每个块的明细
}
