package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - Cause 保留原始错误，支持 errors.Is / errors.As 穿透
//
// 使用场景：
//   - 启动期制品加载：ARTIFACT_INVALID（致命，进程不应对外服务）
//   - 标准化器输入列不匹配：SHAPE_MISMATCH
//   - 分类预测失败：PREDICTION_FAILED
//   - Store 错误：NOT_FOUND, UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "SHAPE_MISMATCH"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "feature", "model"）
	Cause   error  // 原始错误（可选）
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is 按 Module + Code 比较，使得哨兵错误可以匹配带 Cause 的同类错误。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// IsDomainError 检查错误链中是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中第一个 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带原始错误的领域错误
func WrapDomainError(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在
	ErrorCodeUnavailable      = "UNAVAILABLE"       // 服务不可用
	ErrorCodeArtifactInvalid  = "ARTIFACT_INVALID"  // 制品缺失、不可读或 schema 不符
	ErrorCodeShapeMismatch    = "SHAPE_MISMATCH"    // 特征列与拟合时不一致
	ErrorCodePredictionFailed = "PREDICTION_FAILED" // 分类链路任一步骤失败
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleFeature  = "feature"  // 特征模块
	ModuleArtifact = "artifact" // 制品加载
	ModuleService  = "service"  // 服务模块
)

var (
	// ErrShapeMismatch 是 SHAPE_MISMATCH 的哨兵错误，配合 errors.Is 使用
	ErrShapeMismatch = NewDomainError(ModuleFeature, ErrorCodeShapeMismatch, "feature: shape mismatch")

	// ErrPredictionFailed 是 PREDICTION_FAILED 的哨兵错误
	ErrPredictionFailed = NewDomainError(ModuleService, ErrorCodePredictionFailed, "prediction failed")

	// ErrStartupArtifact 是 ARTIFACT_INVALID 的哨兵错误
	ErrStartupArtifact = NewDomainError(ModuleArtifact, ErrorCodeArtifactInvalid, "artifact: invalid")
)

// NewShapeMismatch 创建 ShapeMismatch 错误。
func NewShapeMismatch(message string) *DomainError {
	return NewDomainError(ModuleFeature, ErrorCodeShapeMismatch, "feature: shape mismatch: "+message)
}

// NewPredictionFailed 把分类链路中的任意错误包装为单一的 PredictionFailed。
func NewPredictionFailed(cause error) *DomainError {
	return WrapDomainError(ModuleService, ErrorCodePredictionFailed, "prediction failed", cause)
}

// NewStartupArtifactError 表示启动期制品（模型/编码器/标准化器）缺失或损坏。
func NewStartupArtifactError(name string, cause error) *DomainError {
	return WrapDomainError(ModuleArtifact, ErrorCodeArtifactInvalid, "artifact "+name+" invalid", cause)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsShapeMismatch 检查错误是否为 SHAPE_MISMATCH
func IsShapeMismatch(err error) bool {
	return hasCode(err, ErrorCodeShapeMismatch)
}

// IsPredictionFailed 检查错误是否为 PREDICTION_FAILED
func IsPredictionFailed(err error) bool {
	return hasCode(err, ErrorCodePredictionFailed)
}

// IsStartupArtifactError 检查错误是否为 ARTIFACT_INVALID
func IsStartupArtifactError(err error) bool {
	return hasCode(err, ErrorCodeArtifactInvalid)
}
