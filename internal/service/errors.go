package service

import "errors"

// ── 参数校验 ──

var (
	ErrWeakPassword = errors.New("密码至少 8 位，且必须包含字母、数字和特殊字符")
	ErrIDMismatch   = errors.New("请求体 ID 与路径 ID 不一致")
)

// ── 角色模块 ──

var (
	ErrRoleNotFound   = errors.New("角色不存在")
	ErrRoleNameExists = errors.New("角色名称已存在")
	ErrRoleRestricted = errors.New("内置角色不可删除")
	ErrRoleInUse      = errors.New("角色下存在用户，无法删除")
)

// ── 用户模块 ──

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被使用")
	ErrUserRestricted     = errors.New("内置用户不可删除")
	ErrNoPermission       = errors.New("无权操作")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserLockedOut      = errors.New("登录失败次数过多，账号已被临时锁定")
)

// ── 部门模块 ──

var (
	ErrDepartmentNotFound   = errors.New("部门不存在")
	ErrDepartmentNameExists = errors.New("部门名称已存在")
	ErrDepartmentRestricted = errors.New("内置部门不可删除")
	ErrDepartmentHasMembers = errors.New("部门下存在成员，无法删除")
)
