package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *FolioError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *FolioError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *FolioError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func ContentLoadFailed(root string, cause error) *FolioError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content load failed").
		WithContext("root", root)
}

func NotFound(kind, key string) *FolioError {
	return New(CategoryContent, SeverityWarning, kind+" not found").
		WithContext("key", key)
}

// Render errors

func RenderFailed(route string, cause error) *FolioError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("route", route)
}

func BrokenLinks(count int) *FolioError {
	return New(CategoryValidation, SeverityError, "broken internal links found").
		WithContext("count", count)
}

func OutputError(operation string, cause error) *FolioError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *FolioError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
