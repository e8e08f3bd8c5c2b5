package editor

import (
	"sort"

	"github.com/ByLCY/folio/linewrap"
)

// ChangeKind 区分变更的种类。
type ChangeKind int

const (
	ChangeEdit      ChangeKind = iota // 文档内容或结构变化
	ChangeCaret                       // 只有光标移动
	ChangeSelection                   // 选区变化
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeCaret:
		return "caret"
	case ChangeSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// ChangeEvent 在每个入口调用完成后发送给监听者。
type ChangeEvent struct {
	Version uint64
	Kind    ChangeKind
	Op      string
	Stats   linewrap.Stats
}

// OnChange 注册变更监听，返回取消函数。监听者按注册顺序同步调用。
func (e *Editor) OnChange(fn func(ChangeEvent)) (cancel func()) {
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Editor) notify(ev ChangeEvent) {
	if len(e.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := e.listeners[id]; ok {
			fn(ev)
		}
	}
}
