package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrProcessRunning 周期训练生成任务已在运行中（Redis 运行锁未释放）
var ErrProcessRunning = errors.New("周期训练生成任务正在运行，请稍后再试")
