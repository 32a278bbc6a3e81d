// Package xid 基于 [sony/sonyflake/v2] 生成进程内唯一、跨机器有序的 ID。
//
// xrocketmq 用它生成客户端标识的末段，保证同一主机上重启的进程、
// 以及不同主机上的进程之间不会产生相同的 client id。
//
// 机器 ID 优先取 XID_MACHINE_ID 环境变量，其次取主机名的 FNV 哈希。
// 大规模部署应显式分配 XID_MACHINE_ID，哈希方式存在碰撞概率。
//
// [sony/sonyflake/v2]: https://github.com/sony/sonyflake
package xid
