package telemetry

import "github.com/spf13/pflag"

func initTransportFlags(f *pflag.FlagSet) {
	f.String("transport.addr", defaultCfg.Transport.Addr,
		"-> Collector address: agent dials it, collector listens on it | collector 地址")
	f.Duration("transport.dial-timeout", defaultCfg.Transport.DialTimeout,
		"-> Connect timeout, 0 disables | 建立连接超时")
}
