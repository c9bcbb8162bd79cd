//go:build linux || darwin

// Package pinger - 非特权模式实现
// 使用SOCK_DGRAM类型的ICMP套接字，适用于Linux和macOS
package pinger

// newDgramProber 创建非特权模式的执行器
// 内核不会把目的不可达报文交给DGRAM套接字，这类失败通常以套接字错误或超时出现
func newDgramProber(config *Config) *socketProber {
	p := &socketProber{config: config, network: "udp4", listenAddr: listenAnyIPv4, datagram: true}
	if config.IPVersion == 6 {
		p.network = "udp6"
		p.listenAddr = listenAnyIPv6
	}
	return p
}
