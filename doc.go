// Package raiapi and its sub-packages implement the backend services fronting a RaiBlocks (Nano) node.
/*
raiapi provides you with two microservices, both started from cmd/raiapi:

1) an api microservice (package wallet, raiapi serve) that implements a RESTful API for user requests such as checking
 the balance of an address, assembling unsigned transfers for an external signer, broadcasting signed blocks, reading
 transfer histories and observing addresses.

2) a refresher microservice (package balance, raiapi refresh) that keeps the balances of observed addresses and sends
 an event whenever one of them changes.

Architecture

The api and refresher services communicate via a message broker. Starting or stopping the observation of an address
is stored in the database and sent to the broker; the refresher uses the requests to forget addresses that are no
longer observed. Balance events sent by the refresher are consumed and logged by the api services. The message broker
is implemented as a product agnostic layer (package lib/msg) and is configured at service startup.

Observations and cached balances are kept in a database shared by both services. Its layered implementation (package
lib/store) provides a database product agnostic interface with memory, MongoDB and PostgreSQL backends and
continuation token paging.

The node layer (package lib/block) talks to the node RPC. Every node call goes through a gateway that repeats it on
transport failures only, up to the configured number of attempts; input validation errors and errors reported by the
node are returned at once.

The microservices can also be monitored via a Prometheus API by setting the flag "-m" at startup.

Configuration

Settings are read from a JSON file (flag "-c", see cmd/conf.json) and can be overridden with RAI_ prefixed environment
variables (package lib/config).
*/
package raiapi
