// Package influxdb records entity state changes to InfluxDB v2 and reads
// them back for history graphs and state timelines.
//
// Points are written to the entity_states measurement, tagged with
// entity_id and domain. Numeric states carry a float "value" field in
// addition to the raw "state" string.
package influxdb
