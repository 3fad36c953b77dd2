// Package transport moves opaque byte messages between two endpoints.
//
// Conn is the byte channel. WebSocketConn implements it over a gorilla
// websocket and Pipe provides an in-memory pair. SecureConn composes a Conn
// with the packet codec and an optional peer identity, sealing outgoing
// content for the peer and opening what arrives from it.
//
// Connections carry no other state; session setup and any lifecycle beyond
// attaching a peer identity belong to the caller.
package transport
