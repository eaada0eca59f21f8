// Package control 实现控制面的报文管线
//
// rendezvous 核心自己不碰网络：它只消费「一次一条」递交进来的
// 控制面发布，并把出站通知交还给控制面。本包补上这两端：
//
//   - Server: QUIC 监听器。每个入站流携带一条控制面发布
//     （信封帧），解码后由单个泵协程逐条递交给 rendezvous 核心，
//     保持单线程协作模型的请求顺序。
//   - Client: 远端主机（以及拓扑管理器回注）用来发布控制帧。
//   - Router: 进程内控制面。出站发布按控制标识路由到已注册的
//     处理器（本地代理、测试桩、同进程拓扑管理器）。
//
// 信封帧格式（长度前缀在 QUIC 流上）：
//
//	u8   version
//	16B  message id (uuid)
//	8B   unix-nano 时间戳（大端）
//	u16  控制标识长度（字节，大端；标签是任意字节串）
//	     控制标识字节
//	u32  载荷长度（大端）
//	     载荷
package control
