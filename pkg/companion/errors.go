package companion

import "errors"

// 构造数据模型时的校验错误
var (
	ErrNoTriggerFields = errors.New("trigger must specify at least one of: artist, track, scenery tags")
	ErrNoResponses     = errors.New("trigger must have at least one non-empty response")
	ErrNoTriggers      = errors.New("companion must specify at least one trigger")
	ErrNoImages        = errors.New("at least one image is required")
	ErrNoTags          = errors.New("scene must specify at least one tag")
	ErrBlankName       = errors.New("name cannot be empty")
	ErrBlankLanguage   = errors.New("language cannot be blank when specified")
)
