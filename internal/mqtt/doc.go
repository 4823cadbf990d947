// Package mqtt triggers IR transmissions from MQTT messages.
//
// A Trigger subscribes to <prefix>/send and accepts JSON requests naming a
// registry command or carrying raw bytes:
//
//	{"id":"42","remote":"aircon","command":"power_on"}
//	{"customer_code":"23CB","payloads":["200002"]}
//
// Every request is answered on <prefix>/result:
//
//	{"id":"42","ok":true,"frames":1,"remote":"aircon","command":"power_on"}
//
// Requests are handled one at a time. HandleMessage does the work without
// touching the broker so it can be used from other transports.
package mqtt
