// Package model 定义编辑器排版核心的文档模型：块（文本段、图片、分隔符）、
// 字段（一行候选内容）与文档，以及保证结构约束的规范化与切分操作。
//
// 结构约束（每次变更后都必须成立）：
//   - 图片块之后必须紧跟一个文本段，保证图片后总有光标落点；
//   - 不允许两个相邻的文本段，相邻文本段必须合并；
//   - 空字段必须且只能包含一个空文本段，不能没有任何块。
//
// 光标与选区只持有 id，每次使用时都要重新解析；解析失败视为引用过期。
package model
