package agentmcp

// Version is reported to clients during initialization.
const Version = "0.3.0"
