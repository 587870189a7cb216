package errors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突
var ErrDuplicateKey = errors.New("唯一约束冲突")

// PersistenceError 持久化层错误包装
// 保留原始错误供日志使用，对外只暴露通用信息
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("持久化操作 %s 失败: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is 唯一约束冲突同时匹配 ErrDuplicateKey
func (e *PersistenceError) Is(target error) bool {
	return target == ErrDuplicateKey && errors.Is(e.Err, gorm.ErrDuplicatedKey)
}

// Wrap 将存储层错误包装为 PersistenceError，nil 原样返回
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsDuplicate 判断是否为唯一约束冲突
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
