package goschema

import "regexp"

// Built-in patterns usable as FieldSpec.RegEx via Pattern(...).
var (
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_!#$%&'*+/=?` + "`" + `{|}~^.-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)
	IPv4Pattern  = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])$`)
)
