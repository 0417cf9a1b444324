package config

import "reflect"

// diffEvent compares two configuration structs (or pointers to them) field
// by field. Non-struct values yield an event without changed keys.
func diffEvent(oldCfg, newCfg any) Event {
	evt := Event{OldConfig: oldCfg, NewConfig: newCfg}
	if oldCfg == nil || newCfg == nil {
		return evt
	}

	oldVal := reflect.Indirect(reflect.ValueOf(oldCfg))
	newVal := reflect.Indirect(reflect.ValueOf(newCfg))
	if oldVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	for i := 0; i < oldVal.NumField(); i++ {
		field := oldVal.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, field.Name)
		}
	}
	return evt
}
