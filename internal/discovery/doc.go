// Package discovery finds and advertises urlmap servers on the local network.
//
// Servers register themselves over mDNS/DNS-SD as "_urlmap._tcp" services
// with TXT records describing the API:
//
//	version=dev-20260101
//	entries=7
//	path=/api/v1
//
// Clients browse for the service type and receive one Service per server.
//
// # Usage
//
//	services, err := discovery.ScanForServices(3 * time.Second)
//	for _, svc := range services {
//	    fmt.Println(svc.APIURL())
//	}
package discovery
