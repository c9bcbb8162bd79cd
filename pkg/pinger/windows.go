//go:build windows

// Package pinger - Windows非特权模式实现
// 使用Icmp.dll系统调用，适用于Windows系统
package pinger

import (
	"context"
	"errors"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

var (
	// 加载Icmp.dll库
	icmpDLL = windows.NewLazySystemDLL("Icmp.dll")

	// 获取函数地址
	icmpCreateFile  = icmpDLL.NewProc("IcmpCreateFile")
	icmpCloseHandle = icmpDLL.NewProc("IcmpCloseHandle")
	icmpSendEcho    = icmpDLL.NewProc("IcmpSendEcho")
)

// IP_STATUS 取值
const (
	ipSuccess             = 0
	ipDestNetUnreachable  = 11002
	ipDestHostUnreachable = 11003
	ipReqTimedOut         = 11010
)

// icmpEchoReply 对应Windows的ICMP_ECHO_REPLY结构
type icmpEchoReply struct {
	Address       uint32
	Status        uint32
	RoundTripTime uint32
	DataSize      uint16
	Reserved      uint16
	Data          uintptr
	Options       ipOptions
}

// ipOptions 对应Windows的IP_OPTION_INFORMATION
type ipOptions struct {
	Ttl         uint8
	Tos         uint8
	Flags       uint8
	OptionsSize uint8
	OptionsData uintptr
}

// windowsProber Windows非特权模式的执行器
// 只支持IPv4，IcmpSendEcho是阻塞调用，由超时限制其持续时间
type windowsProber struct {
	config *Config
}

// newWindowsProber 创建Windows非特权模式的执行器
func newWindowsProber(config *Config) (core.Prober, error) {
	if config.IPVersion == 6 {
		return nil, errors.New("Windows ICMP API模式不支持IPv6，请以管理员身份运行")
	}
	if err := icmpDLL.Load(); err != nil {
		return nil, err
	}
	return &windowsProber{config: config}, nil
}

// Probe 实现core.Prober接口
func (p *windowsProber) Probe(ctx context.Context, address string, timeout time.Duration) core.ProbeOutcome {
	dst, err := p.config.ResolveTarget(address)
	if err != nil {
		return core.Failure(core.ReasonOther)
	}
	ip := dst.IP.To4()
	if ip == nil {
		return core.Failure(core.ReasonOther)
	}

	// 每次探测使用独立句柄，允许多个探测重叠进行
	ret, _, err := icmpCreateFile.Call()
	if ret == 0 || ret == uintptr(syscall.InvalidHandle) {
		return core.Failure(core.ReasonOther)
	}
	handle := ret
	defer icmpCloseHandle.Call(handle)

	// 将IP地址转换为32位整数（网络字节序）
	destAddr := uint32(ip[0]) | (uint32(ip[1]) << 8) | (uint32(ip[2]) << 16) | (uint32(ip[3]) << 24)

	sendData := p.config.payload()
	if len(sendData) == 0 {
		sendData = []byte{0}
	}

	// 需要足够大的缓冲区来存储icmpEchoReply结构和数据
	replySize := unsafe.Sizeof(icmpEchoReply{}) + uintptr(len(sendData)) + 8
	replyBuffer := make([]byte, replySize)

	timeoutMs := uint32(timeout.Milliseconds())
	if timeoutMs == 0 {
		timeoutMs = 1
	}

	sendTime := time.Now()
	ret, _, err = icmpSendEcho.Call(
		handle,                                   // ICMP句柄
		uintptr(destAddr),                        // 目标IP地址
		uintptr(unsafe.Pointer(&sendData[0])),    // 发送数据
		uintptr(len(sendData)),                   // 发送数据长度
		0,                                        // ICMP选项（NULL）
		uintptr(unsafe.Pointer(&replyBuffer[0])), // 接收缓冲区
		uintptr(len(replyBuffer)),                // 接收缓冲区大小
		uintptr(timeoutMs),                       // 超时时间（毫秒）
	)
	receiveTime := time.Now()

	if ctx.Err() != nil {
		return core.Failure(core.ReasonOther)
	}

	if ret == 0 {
		// 失败时状态码通过GetLastError返回
		var errno syscall.Errno
		if errors.As(err, &errno) {
			return core.Failure(statusReason(uint32(errno)))
		}
		return core.Failure(core.ReasonOther)
	}

	reply := (*icmpEchoReply)(unsafe.Pointer(&replyBuffer[0]))
	if reply.Status != ipSuccess {
		return core.Failure(statusReason(reply.Status))
	}

	// 优先使用API返回的往返时间
	rtt := time.Duration(reply.RoundTripTime) * time.Millisecond
	if rtt == 0 {
		rtt = receiveTime.Sub(sendTime)
	}
	return core.Success(rtt.Milliseconds())
}

// statusReason 将IP_STATUS映射为失败原因
func statusReason(status uint32) core.FailureReason {
	switch status {
	case ipDestNetUnreachable:
		return core.ReasonNetworkUnreachable
	case ipDestHostUnreachable:
		return core.ReasonHostUnreachable
	case ipReqTimedOut:
		return core.ReasonTimedOut
	}
	return core.ReasonOther
}

// checkWindowsAdmin 检查是否具有Windows管理员权限
func checkWindowsAdmin() bool {
	var sid *windows.SID

	// 获取管理员组的SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	// 检查当前进程token是否属于管理员组
	isMember, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false
	}

	return isMember
}
