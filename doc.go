// Package farbot provides lock-free synchronisation primitives for the
// realtime-audio class of problem: one designated realtime thread must
// read or write shared state without ever blocking, spinning unboundedly,
// or allocating, while any number of non-realtime threads read and/or
// mutate the same state using ordinary locks.
//
// Three primitives cover the common cases:
//
//   - [NonRealtimeMutatable]: the realtime thread reads, non-realtime
//     threads write. Wait-free for the realtime reader.
//   - [RealtimeMutatable]: the realtime thread writes, non-realtime
//     threads read. Wait-free for the realtime writer.
//   - [Fifo]: a bounded slot/CAS queue of pointers, built for the
//     single-producer/single-consumer case.
//
// None of the three call into each other; a host program instantiates
// them independently, typically one NonRealtimeMutatable per configuration
// object and one Fifo per realtime-to-non-realtime event channel.
package farbot
