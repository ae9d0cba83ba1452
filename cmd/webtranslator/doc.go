// Command webtranslator runs the translation web service and its
// maintenance commands.
//
//	webtranslator serve              start the HTTP API and artifact sweeper
//	webtranslator check [--network]  run readiness checks
//	webtranslator artifacts list     show stored audio artifacts
//	webtranslator artifacts sweep    remove expired artifacts now
//	webtranslator config init|show   manage the configuration file
package main
