// Package ftpupload transfers local files to FTP upload servers.
package ftpupload
