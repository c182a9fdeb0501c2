package totems

const Version = "v0.2.1"
