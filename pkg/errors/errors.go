// Package errors 存放跨模块共享的哨兵错误。
// 各业务模块自己的哨兵错误定义在对应 service 文件内。
package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：带版本号的更新没有命中任何行，
// 说明记录已被并发操作修改（或已被删除）
var ErrOptimisticLock = errors.New("记录已被其他操作修改，请刷新后重试")
