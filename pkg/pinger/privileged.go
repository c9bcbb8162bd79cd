// Package pinger - 基于ICMP套接字的探测实现
// 特权模式使用原始套接字，非特权模式使用DGRAM套接字，收发逻辑相同
package pinger

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

const (
	protocolICMP   = 1  // IPv4 ICMP协议号
	protocolICMPv6 = 58 // IPv6 ICMP协议号
	maxReplySize   = 1500
	rawNetworkIPv4 = "ip4:icmp"
	rawNetworkIPv6 = "ip6:ipv6-icmp"
	listenAnyIPv4  = "0.0.0.0"
	listenAnyIPv6  = "::"
)

// socketProber 每次探测独立打开套接字，允许多个探测重叠进行
type socketProber struct {
	config     *Config
	network    string // icmp.ListenPacket使用的网络类型
	listenAddr string
	datagram   bool // DGRAM套接字的标识符由内核改写，不校验ID
}

// newPrivilegedProber 创建特权模式的执行器（原始套接字）
func newPrivilegedProber(config *Config) *socketProber {
	p := &socketProber{config: config, network: rawNetworkIPv4, listenAddr: listenAnyIPv4}
	if config.IPVersion == 6 {
		p.network = rawNetworkIPv6
		p.listenAddr = listenAnyIPv6
	}
	return p
}

// Probe 实现core.Prober接口，发送一次回显请求并等待匹配的回复
func (p *socketProber) Probe(ctx context.Context, address string, timeout time.Duration) core.ProbeOutcome {
	dst, err := p.config.ResolveTarget(address)
	if err != nil {
		return core.Failure(core.ReasonOther)
	}

	conn, err := icmp.ListenPacket(p.network, p.listenAddr)
	if err != nil {
		return core.Failure(errnoReason(err))
	}
	defer conn.Close()

	// 取消时关闭连接以中断阻塞的读取
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	seq := nextSeq()
	request := icmp.Message{
		Type: p.echoType(),
		Body: &icmp.Echo{ID: echoID(), Seq: seq, Data: p.config.payload()},
	}
	data, err := request.Marshal(nil)
	if err != nil {
		return core.Failure(core.ReasonOther)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return core.Failure(core.ReasonOther)
	}

	start := time.Now()
	if _, err := conn.WriteTo(data, p.peerAddr(dst)); err != nil {
		return core.Failure(p.failureReason(ctx, err))
	}

	reply := make([]byte, maxReplySize)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			return core.Failure(p.failureReason(ctx, err))
		}
		rtt := time.Since(start)

		msg, err := icmp.ParseMessage(p.protocol(), reply[:n])
		if err != nil {
			continue
		}

		switch msg.Type {
		case ipv4.ICMPTypeEchoReply, ipv6.ICMPTypeEchoReply:
			echo, ok := msg.Body.(*icmp.Echo)
			if !ok || !p.matchesEcho(echo, seq) || !dst.IP.Equal(addrIP(peer)) {
				continue
			}
			return core.Success(rtt.Milliseconds())

		case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable:
			body, ok := msg.Body.(*icmp.DstUnreach)
			if !ok || !p.matchesQuoted(body.Data, dst.IP, seq) {
				continue
			}
			return core.Failure(unreachableReason(p.config.IPVersion, msg.Code))
		}
	}
}

func (p *socketProber) echoType() icmp.Type {
	if p.config.IPVersion == 6 {
		return ipv6.ICMPTypeEchoRequest
	}
	return ipv4.ICMPTypeEcho
}

func (p *socketProber) protocol() int {
	if p.config.IPVersion == 6 {
		return protocolICMPv6
	}
	return protocolICMP
}

// peerAddr DGRAM套接字需要UDP形式的目标地址
func (p *socketProber) peerAddr(dst *net.IPAddr) net.Addr {
	if p.datagram {
		return &net.UDPAddr{IP: dst.IP, Zone: dst.Zone}
	}
	return dst
}

func (p *socketProber) matchesEcho(echo *icmp.Echo, seq int) bool {
	if echo.Seq != seq {
		return false
	}
	return p.datagram || echo.ID == echoID()
}

// matchesQuoted 检查差错报文引用的原始数据报是否是本次请求
func (p *socketProber) matchesQuoted(quoted []byte, dst net.IP, seq int) bool {
	var inner []byte
	if p.config.IPVersion == 6 {
		h, err := ipv6.ParseHeader(quoted)
		if err != nil || !h.Dst.Equal(dst) || len(quoted) < ipv6.HeaderLen {
			return false
		}
		inner = quoted[ipv6.HeaderLen:]
	} else {
		h, err := ipv4.ParseHeader(quoted)
		if err != nil || !h.Dst.Equal(dst) || len(quoted) < h.Len {
			return false
		}
		inner = quoted[h.Len:]
	}

	msg, err := icmp.ParseMessage(p.protocol(), inner)
	if err != nil {
		return false
	}
	echo, ok := msg.Body.(*icmp.Echo)
	return ok && p.matchesEcho(echo, seq)
}

// failureReason 将读写错误映射为失败原因
func (p *socketProber) failureReason(ctx context.Context, err error) core.FailureReason {
	if ctx.Err() != nil {
		return core.ReasonOther
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ReasonTimedOut
	}
	return errnoReason(err)
}

// unreachableReason 根据目的不可达报文的代码区分网络与主机不可达
func unreachableReason(ipVersion, code int) core.FailureReason {
	if ipVersion == 6 {
		switch code {
		case 0: // no route to destination
			return core.ReasonNetworkUnreachable
		case 3: // address unreachable
			return core.ReasonHostUnreachable
		}
		return core.ReasonOther
	}

	switch code {
	case 0, 6: // net unreachable, net unknown
		return core.ReasonNetworkUnreachable
	case 1, 7: // host unreachable, host unknown
		return core.ReasonHostUnreachable
	}
	return core.ReasonOther
}

func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	}
	return nil
}
