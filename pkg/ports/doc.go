/*
Package ports defines the driven ports (interfaces) of the rental desk.

These interfaces decouple the dialogue and the record store from concrete
storage and chat transports.

# Key Interfaces

  - RecordBackend: durable form of the record sequence (file, Redis, SQLite, memory).
  - SessionStore: persistence of in-flight Session Contexts.
  - Emitter: outbound side of the conversational interface.

Adapters verify themselves with RunRecordBackendContract and RunSessionStoreContract.
*/
package ports
