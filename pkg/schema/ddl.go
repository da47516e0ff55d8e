package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Table is a model with its plain table name and primary key.
type Table struct {
	Name  string
	Key   []string
	Model any
}

// Tables are the marts tables in creation order.
var Tables = []Table{
	{Name: HourlyTable, Key: []string{"region", "ts"}, Model: Hourly{}},
	{Name: DailyTable, Key: []string{"region", "day"}, Model: Daily{}},
	{Name: LoadLogTable, Key: []string{"id"}, Model: LoadLog{}},
}

// DDL creates a CREATE TABLE IF NOT EXISTS statement from db and ddl
// struct tags. It is used for stores without GORM migrations.
func (t Table) DDL() string {
	v := reflect.ValueOf(t.Model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	typ := v.Type()

	var columns []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}
	columns = append(columns,
		fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(t.Key, ", ")))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		t.Name,
		strings.Join(columns, ",\n"))
}
