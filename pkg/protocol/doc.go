// Package protocol 定义 agent 与 collector 之间的线路格式：
// 每条记录（Record）是一个扁平 JSON 对象（指标名 -> 数值），以单个 '\n' 结尾。
//
//	{"CPU": 23.4, "MEM": 812345}\n
//
// 没有头部、长度前缀或结束标记，会话随连接关闭而结束。
package protocol
